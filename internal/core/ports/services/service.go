package services

// ServiceContainer holds instances of all the application services.
// Handlers depend on it rather than on concrete implementations.
type ServiceContainer struct {
	Ledger      LedgerSvc
	Account     AccountSvcFacade
	Category    CategorySvcFacade
	Transaction TransactionReaderSvc
	Sync        SyncSvc
	Auth        AuthSvc
	Seeder      SeederSvc
}
