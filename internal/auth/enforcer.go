package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/rpattn/moviesapi/internal/domain"
)

const (
	RoleAdmin         = "admin"
	RoleTrustedMember = "trustedMember"
)

// Permission names an action a caller may be allowed to perform.
type Permission struct {
	Object string
	Action string
}

var (
	PermMoviesWrite  = Permission{Object: "movies", Action: "write"}
	PermMoviesDelete = Permission{Object: "movies", Action: "delete"}
	PermRatingsWrite = Permission{Object: "ratings", Action: "write"}
)

func (p Permission) String() string {
	return p.Object + ":" + p.Action
}

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
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var defaultPolicy = [][]string{
	{RoleTrustedMember, "movies", "write"},
	{RoleTrustedMember, "ratings", "write"},
	{RoleAdmin, "movies", "delete"},
}

// admin inherits every trustedMember permission
var defaultGrouping = [][]string{
	{RoleAdmin, RoleTrustedMember},
}

// Enforcer answers role based permission checks.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	for _, rule := range defaultPolicy {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, fmt.Errorf("failed to add policy %v: %w", rule, err)
		}
	}
	for _, rule := range defaultGrouping {
		if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
			return nil, fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
		}
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// Allowed reports whether any role of identity grants perm.
func (e *Enforcer) Allowed(identity Identity, perm Permission) (bool, error) {
	for _, role := range identity.Roles() {
		ok, err := e.enforcer.Enforce(role, perm.Object, perm.Action)
		if err != nil {
			return false, fmt.Errorf("enforcement failed: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Authorize returns ErrForbidden when identity lacks perm.
func (e *Enforcer) Authorize(identity Identity, perm Permission) error {
	ok, err := e.Allowed(identity, perm)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: missing permission %s", domain.ErrForbidden, perm)
	}
	return nil
}
