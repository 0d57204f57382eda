package handlers

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/middleware"
	"github.com/SscSPs/income_expense_tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// oauthStateSubject marks a signed state value as one issued for Drive consent.
	oauthStateSubject = "google-drive-sync"
	oauthStateTTL     = 10 * time.Minute
)

// syncHandler handles backup and restore requests.
type syncHandler struct {
	syncService portssvc.SyncSvc
	stateSecret string
	stateIssuer string
}

func newSyncHandler(syncService portssvc.SyncSvc, stateSecret, stateIssuer string) *syncHandler {
	return &syncHandler{syncService: syncService, stateSecret: stateSecret, stateIssuer: stateIssuer}
}

// registerSyncRoutes registers the authenticated sync routes.
func registerSyncRoutes(rg *gin.RouterGroup, h *syncHandler) {
	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.getStatus)
		sync.GET("/auth-url", h.getAuthURL)
		sync.POST("/complete-auth", h.completeAuth)
		sync.POST("/backup", h.backup)
		sync.POST("/restore", h.restore)
		sync.POST("/disconnect", h.disconnect)
	}
}

// newOAuthState signs a short-lived state value so the callback can reject forged requests.
func (h *syncHandler) newOAuthState() (string, error) {
	return utils.GenerateJWT(oauthStateSubject, h.stateSecret, oauthStateTTL, h.stateIssuer)
}

func (h *syncHandler) validOAuthState(state string) bool {
	if state == "" {
		return false
	}
	claims, err := utils.ParseAndValidateJWT(state, h.stateSecret)
	return err == nil && claims.Subject == oauthStateSubject
}

// getStatus godoc
// @Summary Google Drive connection status
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncStatusResponse
// @Security BearerAuth
// @Router /sync/status [get]
func (h *syncHandler) getStatus(c *gin.Context) {
	ok, err := h.syncService.IsAuthenticated(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to read sync status")
		return
	}
	msg := "Not connected to Google Drive"
	if ok {
		msg = "Connected to Google Drive"
	}
	c.JSON(http.StatusOK, dto.SyncStatusResponse{IsAuthenticated: ok, Message: msg})
}

// getAuthURL godoc
// @Summary Google consent URL
// @Tags sync
// @Produce json
// @Success 200 {object} dto.AuthURLResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sync/auth-url [get]
func (h *syncHandler) getAuthURL(c *gin.Context) {
	state, err := h.newOAuthState()
	if err != nil {
		respondWithError(c, err, "Failed to build authorization URL")
		return
	}
	url, err := h.syncService.AuthURL(state)
	if err != nil {
		respondWithError(c, err, "Failed to build authorization URL")
		return
	}
	c.JSON(http.StatusOK, dto.AuthURLResponse{AuthURL: url})
}

// completeAuth godoc
// @Summary Complete Google authorization with a code
// @Tags sync
// @Accept json
// @Produce json
// @Param request body dto.CompleteAuthRequest true "Authorization code"
// @Success 200 {object} dto.SyncStatusResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sync/complete-auth [post]
func (h *syncHandler) completeAuth(c *gin.Context) {
	var req dto.CompleteAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	if err := h.syncService.CompleteAuth(c.Request.Context(), req.Code); err != nil {
		respondWithError(c, err, "Failed to complete authorization")
		return
	}
	c.JSON(http.StatusOK, dto.SyncStatusResponse{IsAuthenticated: true, Message: "Connected to Google Drive"})
}

// backup godoc
// @Summary Upload a backup to Google Drive
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncResultResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sync/backup [post]
func (h *syncHandler) backup(c *gin.Context) {
	ts, err := h.syncService.Backup(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to back up data")
		return
	}
	c.JSON(http.StatusOK, dto.SyncResultResponse{Message: "Backup completed successfully", Timestamp: ts})
}

// restore godoc
// @Summary Replace all data with the Google Drive backup
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sync/restore [post]
func (h *syncHandler) restore(c *gin.Context) {
	ts, err := h.syncService.Restore(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to restore data")
		return
	}
	c.JSON(http.StatusOK, dto.SyncResultResponse{Message: "Restore completed successfully", Timestamp: ts})
}

// disconnect godoc
// @Summary Forget the stored Google credentials
// @Tags sync
// @Success 204
// @Security BearerAuth
// @Router /sync/disconnect [post]
func (h *syncHandler) disconnect(c *gin.Context) {
	if err := h.syncService.Disconnect(c.Request.Context()); err != nil {
		respondWithError(c, err, "Failed to disconnect")
		return
	}
	c.Status(http.StatusNoContent)
}

const callbackPage = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h2>%s</h2>
<p>%s</p>
<p>You can close this window.</p>
</body>
</html>`

func renderCallback(c *gin.Context, status int, title, message string) {
	body := fmt.Sprintf(callbackPage, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}

// oauthCallback is the redirect target registered with Google. It sits outside
// the bearer-protected group, so the signed state is what authorizes it.
func (h *syncHandler) oauthCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if e := c.Query("error"); e != "" {
		logger.Warn("Google authorization denied", slog.String("error", e))
		renderCallback(c, http.StatusBadRequest, "Authorization failed", e)
		return
	}
	if !h.validOAuthState(c.Query("state")) {
		logger.Warn("Google callback with invalid state")
		renderCallback(c, http.StatusBadRequest, "Authorization failed", "The request state is invalid or has expired.")
		return
	}
	code := c.Query("code")
	if code == "" {
		renderCallback(c, http.StatusBadRequest, "Authorization failed", "No authorization code was received.")
		return
	}

	if err := h.syncService.CompleteAuth(c.Request.Context(), code); err != nil {
		logger.Error("Failed to complete Google authorization", slog.String("error", err.Error()))
		renderCallback(c, statusFor(err), "Authorization failed", "Could not connect to Google Drive.")
		return
	}
	renderCallback(c, http.StatusOK, "Authorization successful", "Google Drive is now connected.")
}
