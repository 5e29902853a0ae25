package pgsql

import (
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories to one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:           newPgxUserRepository(dbPool),
		TenantRepo:         newPgxTenantRepository(dbPool),
		BillingProfileRepo: newPgxBillingProfileRepository(dbPool),
		DocumentRepo:       newPgxDocumentRepository(dbPool),
		ProjectRepo:        newPgxProjectRepository(dbPool),
	}
}
