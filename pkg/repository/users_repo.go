package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/tendant/simple-tenancy/pkg/domain"
)

const userColumns = "id, email, full_name, subscription_tier, tenant_id"

// UserFilter narrows a user listing. A nil TenantID lists across all tenants.
type UserFilter struct {
	TenantID *int64
	Page
}

// UsersRepository handles user persistence.
type UsersRepository struct {
	db *sqlx.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sqlx.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create creates a new user.
func (r *UsersRepository) Create(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	var user *domain.User
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = r.CreateTx(ctx, tx, in)
		return err
	})
	return user, err
}

// CreateTx creates a new user within a transaction.
func (r *UsersRepository) CreateTx(ctx context.Context, q Querier, in domain.UserCreate) (*domain.User, error) {
	tier := in.SubscriptionTier
	if tier == "" {
		tier = domain.SubscriptionTierFree
	}

	query := `
		INSERT INTO users (email, full_name, subscription_tier, tenant_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user domain.User
	err := sqlx.GetContext(ctx, q, &user, query, in.Email, in.FullName, string(tier), in.TenantID)
	if err != nil {
		return nil, userWriteError("create user", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = r.GetByIDTx(ctx, tx, id)
		return err
	})
	return user, err
}

// GetByIDTx retrieves a user by ID within a transaction.
func (r *UsersRepository) GetByIDTx(ctx context.Context, q Querier, id int64) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	var user domain.User
	err := sqlx.GetContext(ctx, q, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, storageError("get user", err)
	}
	return &user, nil
}

// List returns users ordered by ID, optionally restricted to one tenant.
func (r *UsersRepository) List(ctx context.Context, filter UserFilter) ([]*domain.User, error) {
	b := psql.Select(userColumns).
		From("users").
		OrderBy("id ASC").
		Limit(filter.limit()).
		Offset(filter.offset())
	if filter.TenantID != nil {
		b = b.Where(sq.Eq{"tenant_id": *filter.TenantID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, storageError("build user list", err)
	}

	users := []*domain.User{}
	err = WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return sqlx.SelectContext(ctx, tx, &users, query, args...)
	})
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

// Update applies the supplied fields to a user and returns the result.
// The owning tenant is never changed.
func (r *UsersRepository) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	var user *domain.User
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if in.IsEmpty() {
			var err error
			user, err = r.GetByIDTx(ctx, tx, id)
			return err
		}

		b := psql.Update("users").
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + userColumns)
		if in.Email != nil {
			b = b.Set("email", *in.Email)
		}
		if in.FullName != nil {
			b = b.Set("full_name", *in.FullName)
		}
		if in.SubscriptionTier != nil {
			b = b.Set("subscription_tier", string(*in.SubscriptionTier))
		}

		query, args, err := b.ToSql()
		if err != nil {
			return storageError("build user update", err)
		}

		var updated domain.User
		if err := sqlx.GetContext(ctx, tx, &updated, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return userWriteError("update user", err)
		}
		user = &updated
		return nil
	})
	return user, err
}

// Delete permanently deletes a user.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return storageError("delete user", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return storageError("delete user", err)
		}
		if rows == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func userWriteError(op string, err error) error {
	switch classifyConstraint(err) {
	case constraintUnique:
		return domain.ErrEmailTaken
	case constraintForeignKey:
		return domain.ErrTenantReference
	}
	return storageError(op, err)
}
