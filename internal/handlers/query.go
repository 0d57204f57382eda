package handlers

import (
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
)

// parseKind reads an optional ?type= value.
func parseKind(raw string) (*domain.TransactionKind, error) {
	if raw == "" {
		return nil, nil
	}
	for _, k := range []domain.TransactionKind{domain.TransactionKindIncome, domain.TransactionKindExpense} {
		if strings.EqualFold(raw, string(k)) {
			return &k, nil
		}
	}
	return nil, apperrors.NewValidationError("type must be Income or Expense")
}

// parseDateRange reads optional fromDate/toDate values. A bare toDate date covers the whole day.
func parseDateRange(fromRaw, toRaw string) (from, to *time.Time, err error) {
	if fromRaw != "" {
		t, err := dto.ParseDate(fromRaw)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("fromDate: %s", err.Error())
		}
		from = &t
	}
	if toRaw != "" {
		t, err := dto.ParseDate(toRaw)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("toDate: %s", err.Error())
		}
		t = dto.EndOfDay(t)
		to = &t
	}
	return from, to, nil
}
