package repositories

// RepositoryProvider bundles all repository implementations backed by a
// single database pool.
type RepositoryProvider struct {
	UserRepo           UserRepository
	TenantRepo         TenantRepository
	BillingProfileRepo BillingProfileRepository
	DocumentRepo       DocumentRepository
	ProjectRepo        ProjectRepository
}
