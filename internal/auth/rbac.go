package auth

import (
	"fmt"

	"cleaning-crm/internal/domain"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources guarded in the CRM.
const (
	ResourceOrders    = "orders"
	ResourceAddresses = "addresses"
	ResourceUsers     = "users"
	ResourceEmployees = "employees"
	ResourceSchedules = "schedules"
)

// Actions on a resource.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Authorizer decides whether a staff role may act on a CRM resource.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds the role policy: USER reads everything and manages
// addresses, ADMIN inherits USER and may do anything.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init rbac enforcer: %w", err)
	}

	user := string(domain.RoleUser)
	admin := string(domain.RoleAdmin)
	policies := [][]string{
		{user, ResourceOrders, ActionRead},
		{user, ResourceAddresses, ActionRead},
		{user, ResourceAddresses, ActionWrite},
		{user, ResourceUsers, ActionRead},
		{user, ResourceEmployees, ActionRead},
		{user, ResourceSchedules, ActionRead},
		{admin, "*", "*"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("add rbac policies: %w", err)
	}
	if _, err := e.AddGroupingPolicy(admin, user); err != nil {
		return nil, fmt.Errorf("add rbac role: %w", err)
	}
	return &Authorizer{enforcer: e}, nil
}

// Allowed reports whether role may perform act on obj.
func (a *Authorizer) Allowed(role domain.Role, obj, act string) (bool, error) {
	ok, err := a.enforcer.Enforce(string(role), obj, act)
	if err != nil {
		return false, fmt.Errorf("rbac enforce: %w", err)
	}
	return ok, nil
}
