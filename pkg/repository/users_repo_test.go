package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-tenancy/pkg/domain"
)

func TestUsersRepository_Create(t *testing.T) {
	tenants, users, _ := newTestRepos(t)
	ctx := context.Background()

	tenant := mustCreateTenant(t, tenants, "acme")

	user, err := users.Create(ctx, domain.UserCreate{
		Email:            "a@acme.com",
		FullName:         "A",
		SubscriptionTier: domain.SubscriptionTierStandard,
		TenantID:         tenant.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "a@acme.com", user.Email)
	require.Equal(t, "A", user.FullName)
	require.Equal(t, domain.SubscriptionTierStandard, user.SubscriptionTier)
	require.Equal(t, tenant.ID, user.TenantID)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user, got)
}

func TestUsersRepository_Create_DefaultsTier(t *testing.T) {
	tenants, users, _ := newTestRepos(t)

	tenant := mustCreateTenant(t, tenants, "acme")
	user, err := users.Create(context.Background(), domain.UserCreate{
		Email:    "a@acme.com",
		FullName: "A",
		TenantID: tenant.ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionTierFree, user.SubscriptionTier)
}

func TestUsersRepository_Create_DuplicateEmail(t *testing.T) {
	tenants, users, db := newTestRepos(t)
	ctx := context.Background()

	tenant := mustCreateTenant(t, tenants, "acme")
	first := mustCreateUser(t, users, "a@acme.com", tenant.ID)

	_, err := users.Create(ctx, domain.UserCreate{
		Email:            "a@acme.com",
		FullName:         "Someone Else",
		SubscriptionTier: domain.SubscriptionTierPremium,
		TenantID:         tenant.ID,
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := users.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first, got)
	require.Equal(t, 1, countRows(t, db, "users"))
}

func TestUsersRepository_Create_MissingTenant(t *testing.T) {
	_, users, db := newTestRepos(t)

	_, err := users.Create(context.Background(), domain.UserCreate{
		Email:            "a@acme.com",
		FullName:         "A",
		SubscriptionTier: domain.SubscriptionTierFree,
		TenantID:         77,
	})
	require.ErrorIs(t, err, domain.ErrTenantReference)
	require.Equal(t, 0, countRows(t, db, "users"))
}

func TestUsersRepository_List(t *testing.T) {
	tenants, users, _ := newTestRepos(t)
	ctx := context.Background()

	acme := mustCreateTenant(t, tenants, "acme")
	globex := mustCreateTenant(t, tenants, "globex")

	// Interleave tenants so filtering has to skip rows.
	for i := 0; i < 4; i++ {
		mustCreateUser(t, users, fmt.Sprintf("a%d@acme.com", i), acme.ID)
		mustCreateUser(t, users, fmt.Sprintf("g%d@globex.com", i), globex.ID)
	}

	emails := func(list []*domain.User) []string {
		out := []string{}
		for _, u := range list {
			out = append(out, u.Email)
		}
		return out
	}

	tests := []struct {
		name   string
		filter UserFilter
		want   []string
	}{
		{
			name:   "tenant filter",
			filter: UserFilter{TenantID: int64Ptr(acme.ID), Page: Page{Limit: 100}},
			want:   []string{"a0@acme.com", "a1@acme.com", "a2@acme.com", "a3@acme.com"},
		},
		{
			name:   "tenant filter with window",
			filter: UserFilter{TenantID: int64Ptr(globex.ID), Page: Page{Skip: 1, Limit: 2}},
			want:   []string{"g1@globex.com", "g2@globex.com"},
		},
		{
			name:   "all tenants",
			filter: UserFilter{Page: Page{Limit: 3}},
			want:   []string{"a0@acme.com", "g0@globex.com", "a1@acme.com"},
		},
		{
			name:   "unknown tenant",
			filter: UserFilter{TenantID: int64Ptr(999), Page: Page{Limit: 100}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := users.List(ctx, tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, emails(got))
			for _, u := range got {
				if tt.filter.TenantID != nil {
					require.Equal(t, *tt.filter.TenantID, u.TenantID)
				}
			}
		})
	}
}

func TestUsersRepository_Update(t *testing.T) {
	tenants, users, _ := newTestRepos(t)
	ctx := context.Background()

	tenant := mustCreateTenant(t, tenants, "acme")
	user := mustCreateUser(t, users, "a@acme.com", tenant.ID)
	mustCreateUser(t, users, "b@acme.com", tenant.ID)

	t.Run("tier only", func(t *testing.T) {
		premium := domain.SubscriptionTierPremium
		got, err := users.Update(ctx, user.ID, domain.UserUpdate{SubscriptionTier: &premium})
		require.NoError(t, err)
		require.Equal(t, domain.SubscriptionTierPremium, got.SubscriptionTier)
		require.Equal(t, user.Email, got.Email)
		require.Equal(t, user.FullName, got.FullName)
		require.Equal(t, user.TenantID, got.TenantID)
	})

	t.Run("email and name", func(t *testing.T) {
		got, err := users.Update(ctx, user.ID, domain.UserUpdate{
			Email:    stringPtr("alice@acme.com"),
			FullName: stringPtr("Alice"),
		})
		require.NoError(t, err)
		require.Equal(t, "alice@acme.com", got.Email)
		require.Equal(t, "Alice", got.FullName)
		require.Equal(t, domain.SubscriptionTierPremium, got.SubscriptionTier)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.Update(ctx, user.ID, domain.UserUpdate{Email: stringPtr("b@acme.com")})
		require.ErrorIs(t, err, domain.ErrEmailTaken)

		got, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "alice@acme.com", got.Email)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.Update(ctx, 999, domain.UserUpdate{FullName: stringPtr("x")})
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUsersRepository_Delete(t *testing.T) {
	tenants, users, _ := newTestRepos(t)
	ctx := context.Background()

	tenant := mustCreateTenant(t, tenants, "acme")
	user := mustCreateUser(t, users, "a@acme.com", tenant.ID)

	require.NoError(t, users.Delete(ctx, user.ID))
	require.ErrorIs(t, users.Delete(ctx, user.ID), domain.ErrUserNotFound)

	_, err := users.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	// The tenant outlives its users.
	_, err = tenants.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	tenants, _, db := newTestRepos(t)
	ctx := context.Background()

	boom := fmt.Errorf("boom")
	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tenants.CreateTx(ctx, tx, domain.TenantCreate{Name: "acme"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, countRows(t, db, "tenants"))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	tenants, _, db := newTestRepos(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = WithTx(ctx, db, func(tx *sqlx.Tx) error {
			if _, err := tenants.CreateTx(ctx, tx, domain.TenantCreate{Name: "acme"}); err != nil {
				return err
			}
			panic("boom")
		})
	})
	require.Equal(t, 0, countRows(t, db, "tenants"))
}
