package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/tendant/simple-tenancy/pkg/domain"
)

const tenantColumns = "id, name"

// TenantsRepository handles tenant data persistence.
type TenantsRepository struct {
	db *sqlx.DB
}

// NewTenantsRepository creates a new tenants repository.
func NewTenantsRepository(db *sqlx.DB) *TenantsRepository {
	return &TenantsRepository{db: db}
}

// Create creates a new tenant.
func (r *TenantsRepository) Create(ctx context.Context, in domain.TenantCreate) (*domain.Tenant, error) {
	var tenant *domain.Tenant
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		tenant, err = r.CreateTx(ctx, tx, in)
		return err
	})
	return tenant, err
}

// CreateTx creates a new tenant within a transaction.
func (r *TenantsRepository) CreateTx(ctx context.Context, q Querier, in domain.TenantCreate) (*domain.Tenant, error) {
	query := `
		INSERT INTO tenants (name)
		VALUES ($1)
		RETURNING ` + tenantColumns

	var tenant domain.Tenant
	if err := sqlx.GetContext(ctx, q, &tenant, query, in.Name); err != nil {
		return nil, tenantWriteError("create tenant", err)
	}
	return &tenant, nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantsRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	var tenant *domain.Tenant
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		tenant, err = r.GetByIDTx(ctx, tx, id)
		return err
	})
	return tenant, err
}

// GetByIDTx retrieves a tenant by ID within a transaction.
func (r *TenantsRepository) GetByIDTx(ctx context.Context, q Querier, id int64) (*domain.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1
	`

	var tenant domain.Tenant
	err := sqlx.GetContext(ctx, q, &tenant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, storageError("get tenant", err)
	}

	return &tenant, nil
}

// Exists checks if a tenant exists by ID.
func (r *TenantsRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowxContext(ctx, query, id).Scan(&exists); err != nil {
		return false, storageError("check tenant", err)
	}
	return exists, nil
}

// List returns tenants ordered by ID.
func (r *TenantsRepository) List(ctx context.Context, page Page) ([]*domain.Tenant, error) {
	query, args, err := psql.Select(tenantColumns).
		From("tenants").
		OrderBy("id ASC").
		Limit(page.limit()).
		Offset(page.offset()).
		ToSql()
	if err != nil {
		return nil, storageError("build tenant list", err)
	}

	tenants := []*domain.Tenant{}
	err = WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return sqlx.SelectContext(ctx, tx, &tenants, query, args...)
	})
	if err != nil {
		return nil, storageError("list tenants", err)
	}
	return tenants, nil
}

// Update applies the supplied fields to a tenant and returns the result.
func (r *TenantsRepository) Update(ctx context.Context, id int64, in domain.TenantUpdate) (*domain.Tenant, error) {
	var tenant *domain.Tenant
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if in.IsEmpty() {
			var err error
			tenant, err = r.GetByIDTx(ctx, tx, id)
			return err
		}

		b := psql.Update("tenants").
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + tenantColumns)
		if in.Name != nil {
			b = b.Set("name", *in.Name)
		}

		query, args, err := b.ToSql()
		if err != nil {
			return storageError("build tenant update", err)
		}

		var updated domain.Tenant
		if err := sqlx.GetContext(ctx, tx, &updated, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrTenantNotFound
			}
			return tenantWriteError("update tenant", err)
		}
		tenant = &updated
		return nil
	})
	return tenant, err
}

// Delete permanently deletes a tenant. Users of the tenant are removed by
// the ON DELETE CASCADE foreign key.
func (r *TenantsRepository) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
		if err != nil {
			return storageError("delete tenant", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return storageError("delete tenant", err)
		}
		if rows == 0 {
			return domain.ErrTenantNotFound
		}
		return nil
	})
}

func tenantWriteError(op string, err error) error {
	if classifyConstraint(err) == constraintUnique {
		return domain.ErrTenantNameTaken
	}
	return storageError(op, err)
}
