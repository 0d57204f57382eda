package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/utils"
)

// AuthConfig holds the owner's credentials and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	JWTIssuer    string
	JWTExpiry    time.Duration
}

type authService struct {
	BaseService
	cfg AuthConfig
}

// NewAuthService creates the single-owner login service.
func NewAuthService(cfg AuthConfig, options ...ServiceOption) portssvc.AuthSvc {
	return &authService{
		BaseService: newBaseService(applyOptions(options)),
		cfg:         cfg,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.PasswordHash == "" {
		s.LogWarn(ctx, "Login attempted but no admin password hash is configured")
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invalid username or password", nil)
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) == 1
	passOK := utils.CheckPasswordHash(req.Password, s.cfg.PasswordHash)
	if !userOK || !passOK {
		s.LogWarn(ctx, "Failed login attempt", slog.String("username", req.Username))
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invalid username or password", nil)
	}

	token, err := utils.GenerateJWT(s.cfg.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return nil, fmt.Errorf("%w: failed to sign token", apperrors.ErrInternal)
	}

	s.LogInfo(ctx, "Owner logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.JWTExpiry.Seconds()),
	}, nil
}
