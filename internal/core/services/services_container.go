package services

import (
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
)

// ContainerConfig carries the settings services need beyond the store.
type ContainerConfig struct {
	Auth             AuthConfig
	RejectOverdraft  bool
	BackupAuthorizer portsrepo.BackupAuthorizer
}

// NewServiceContainer wires every service onto one store.
func NewServiceContainer(store portsrepo.Store, cfg ContainerConfig, options ...ServiceOption) *portssvc.ServiceContainer {
	ledgerOptions := append([]ServiceOption{WithOverdraftProtection(cfg.RejectOverdraft)}, options...)
	return &portssvc.ServiceContainer{
		Ledger:      NewLedgerService(store, ledgerOptions...),
		Account:     NewAccountService(store, options...),
		Category:    NewCategoryService(store, options...),
		Transaction: NewTransactionService(store, options...),
		Sync:        NewSyncService(store, cfg.BackupAuthorizer, options...),
		Auth:        NewAuthService(cfg.Auth, options...),
		Seeder:      NewSeedService(store, options...),
	}
}
