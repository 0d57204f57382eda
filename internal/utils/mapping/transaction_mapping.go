package mapping

import (
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/SscSPs/income_expense_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Description:   d.Description,
		Amount:        d.Amount,
		Kind:          string(d.Kind),
		Category:      d.Category,
		AccountID:     d.AccountID,
		TxnDate:       d.Date.UTC(),
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Amount:        m.Amount,
		Kind:          domain.TransactionKind(m.Kind),
		Category:      m.Category,
		AccountID:     m.AccountID,
		Date:          m.TxnDate.UTC(),
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionDetail converts a joined row.
func ToDomainTransactionDetail(m models.TransactionWithAccount) domain.TransactionDetail {
	return domain.TransactionDetail{
		Transaction: ToDomainTransaction(m.Transaction),
		AccountName: m.AccountName,
		AccountIcon: m.AccountIcon,
	}
}
