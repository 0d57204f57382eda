package handlers

import (
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain enum validators to gin's binding engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("transaction_kind", func(fl validator.FieldLevel) bool {
		return domain.TransactionKind(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("account_kind", func(fl validator.FieldLevel) bool {
		return domain.AccountKind(fl.Field().String()).IsValid()
	})
}
