package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// Role permissions are static for this application: the three roles and what
// they may do are part of the product, not tenant configuration. They live in
// code so the enforcer needs no policy storage.
const modelText = `
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

type permission struct {
	role     string
	resource string
	action   string
}

var rolePermissions = []permission{
	{"EMPLOYEE", "leave", "apply"},
	{"EMPLOYEE", "leave", "read-own"},
	{"EMPLOYEE", "leave", "cancel"},
	{"EMPLOYEE", "holiday", "read"},

	{"MANAGER", "leave", "review"},
	{"MANAGER", "employee", "options"},

	{"ADMIN", "employee", "read"},
	{"ADMIN", "employee", "write"},
	{"ADMIN", "employee", "stats"},
	{"ADMIN", "employee", "accrue"},
	{"ADMIN", "holiday", "write"},
	{"ADMIN", "settings", "read"},
	{"ADMIN", "settings", "write"},
}

// Role inheritance: managers can do everything employees can, admins
// everything managers can.
var roleHierarchy = [][2]string{
	{"MANAGER", "EMPLOYEE"},
	{"ADMIN", "MANAGER"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePermissions {
		if _, err := enforcer.AddPolicy(p.role, p.resource, p.action); err != nil {
			return nil, err
		}
	}
	for _, g := range roleHierarchy {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
