package domain

// Tenant represents an organization that owns users.
type Tenant struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// TenantCreate is the input for creating a tenant.
type TenantCreate struct {
	Name string
}

// TenantUpdate is a partial tenant update. Nil fields are left unchanged.
type TenantUpdate struct {
	Name *string
}

// Normalize trims the name and validates it.
func (c *TenantCreate) Normalize() error {
	name, err := normalizeName("name", c.Name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// Normalize validates the supplied fields only.
func (u *TenantUpdate) Normalize() error {
	if u.Name != nil {
		name, err := normalizeName("name", *u.Name)
		if err != nil {
			return err
		}
		u.Name = &name
	}
	return nil
}

// IsEmpty returns true if no field is set.
func (u TenantUpdate) IsEmpty() bool {
	return u.Name == nil
}
