package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-tenancy/pkg/domain"
)

// newTestDB opens a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(Config{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db, DriverSQLite, nil))
	return db
}

func newTestRepos(t *testing.T) (*TenantsRepository, *UsersRepository, *sqlx.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewTenantsRepository(db), NewUsersRepository(db), db
}

func mustCreateTenant(t *testing.T, repo *TenantsRepository, name string) *domain.Tenant {
	t.Helper()
	tenant, err := repo.Create(context.Background(), domain.TenantCreate{Name: name})
	require.NoError(t, err)
	return tenant
}

func mustCreateUser(t *testing.T, repo *UsersRepository, email string, tenantID int64) *domain.User {
	t.Helper()
	user, err := repo.Create(context.Background(), domain.UserCreate{
		Email:            email,
		FullName:         "Test User",
		SubscriptionTier: domain.SubscriptionTierFree,
		TenantID:         tenantID,
	})
	require.NoError(t, err)
	return user
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestPage_NegativeValues(t *testing.T) {
	p := Page{Skip: -1, Limit: -5}
	require.Zero(t, p.offset())
	require.Zero(t, p.limit())

	p = Page{Skip: 3, Limit: 10}
	require.Equal(t, uint64(3), p.offset())
	require.Equal(t, uint64(10), p.limit())
}
