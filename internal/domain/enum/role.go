package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Role is the job a staff member performs in the store.
type Role int

const (
	RoleAdministrador Role = 0
	RoleGerente       Role = 1
	RoleVendedor      Role = 2
	RoleEstoquista    Role = 3
	RoleCaixa         Role = 4
	RoleMotoboy       Role = 5
)

var roleLabels = []string{"Administrador", "Gerente", "Vendedor", "Estoquista", "Caixa", "Motoboy"}

// AllRoles lists every role in declaration order.
func AllRoles() []Role {
	return []Role{RoleAdministrador, RoleGerente, RoleVendedor, RoleEstoquista, RoleCaixa, RoleMotoboy}
}

func (r Role) String() string { return label(roleLabels, int(r)) }

func (r Role) IsValid() bool { return r >= RoleAdministrador && r <= RoleMotoboy }

// ParseRole converts a label such as "Vendedor" into a Role.
func ParseRole(s string) (Role, bool) {
	i, ok := parse(roleLabels, s)
	return Role(i), ok
}

// IsSalesRole reports whether the role carries an individual sales goal.
func (r Role) IsSalesRole() bool {
	switch r {
	case RoleVendedor, RoleGerente, RoleAdministrador:
		return true
	case RoleEstoquista, RoleCaixa, RoleMotoboy:
		return false
	}
	return false
}

// IsManager reports whether the role can administer the store.
func (r Role) IsManager() bool {
	switch r {
	case RoleAdministrador, RoleGerente:
		return true
	case RoleVendedor, RoleEstoquista, RoleCaixa, RoleMotoboy:
		return false
	}
	return false
}

// CanEditSales reports whether the role may amend a completed sale.
func (r Role) CanEditSales() bool {
	switch r {
	case RoleAdministrador:
		return true
	case RoleGerente, RoleVendedor, RoleEstoquista, RoleCaixa, RoleMotoboy:
		return false
	}
	return false
}

// SeesOnlyOwnDeliveries reports whether delivery listings are restricted to
// orders assigned to the viewer by name.
func (r Role) SeesOnlyOwnDeliveries() bool {
	switch r {
	case RoleMotoboy:
		return true
	case RoleAdministrador, RoleGerente, RoleVendedor, RoleEstoquista, RoleCaixa:
		return false
	}
	return false
}

// CommissionOnOwnSales reports whether commission is computed from the
// viewer's own sales rather than the whole store's.
func (r Role) CommissionOnOwnSales() bool {
	switch r {
	case RoleVendedor:
		return true
	case RoleAdministrador, RoleGerente, RoleEstoquista, RoleCaixa, RoleMotoboy:
		return false
	}
	return false
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	i, err := decode(roleLabels, data)
	if err != nil {
		return err
	}
	*r = Role(i)
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *Role) Scan(value interface{}) error {
	if value == nil {
		*r = RoleVendedor
		return nil
	}
	*r = Role(scan(value))
	return nil
}
