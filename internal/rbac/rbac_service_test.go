package rbac

import (
	"testing"

	"hrms-payroll/internal/domain"
	rbacerrors "hrms-payroll/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	employeeRoles   []EmployeeRoleRow
	rolePermissions []RolePermissionRow
	roles           []RoleRow
	permissions     []PermissionRow
	rolePermIDs     map[string][]string

	created *RoleRow
	deleted string
}

func (f *fakeRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return f.employeeRoles, nil
}

func (f *fakeRepo) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	return f.rolePermissions, nil
}

func (f *fakeRepo) ListRoles(companyID string) ([]RoleRow, error) {
	var out []RoleRow
	for _, r := range f.roles {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRoleByID(id string) (*RoleRow, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			return &f.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetRoleByName(companyID, name string) (*RoleRow, error) {
	for i := range f.roles {
		if f.roles[i].CompanyID == companyID && f.roles[i].Name == name {
			return &f.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateRole(role *RoleRow) error {
	role.ID = "role-new"
	f.created = role
	f.roles = append(f.roles, *role)
	return nil
}

func (f *fakeRepo) UpdateRole(role *RoleRow) error {
	for i := range f.roles {
		if f.roles[i].ID == role.ID {
			f.roles[i] = *role
		}
	}
	return nil
}

func (f *fakeRepo) DeleteRole(id string) error {
	f.deleted = id
	return nil
}

func (f *fakeRepo) ListPermissions() ([]PermissionRow, error) {
	return f.permissions, nil
}

func (f *fakeRepo) GetPermissionsByRoleID(roleID string) ([]PermissionRow, error) {
	var out []PermissionRow
	for _, id := range f.rolePermIDs[roleID] {
		out = append(out, PermissionRow{ID: id})
	}
	return out, nil
}

func (f *fakeRepo) UpdateRolePermissions(roleID string, permIDs []string) error {
	if f.rolePermIDs == nil {
		f.rolePermIDs = map[string][]string{}
	}
	f.rolePermIDs[roleID] = permIDs
	return nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	return e
}

func TestService_Enforce(t *testing.T) {
	repo := &fakeRepo{
		employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-hr", Resource: "payroll", Action: "read"},
		},
	}
	svc := NewService(repo, newTestEnforcer(t))

	allowed, err := svc.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "read",
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "approve",
	})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = svc.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-2",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "read",
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestService_CreateRole(t *testing.T) {
	repo := &fakeRepo{
		roles: []RoleRow{
			{ID: "role-hr", CompanyID: "company-1", Name: "HR"},
		},
	}
	svc := NewService(repo, newTestEnforcer(t))

	resp, err := svc.CreateRole("company-1", domain.CreateRoleRequest{
		Name:        "Finance",
		Permissions: []string{"perm-1", "perm-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Finance", resp.Name)
	assert.Equal(t, []string{"perm-1", "perm-2"}, resp.Permissions)
	assert.Equal(t, []string{"perm-1", "perm-2"}, repo.rolePermIDs["role-new"])

	_, err = svc.CreateRole("company-1", domain.CreateRoleRequest{Name: "HR"})
	assert.ErrorIs(t, err, rbacerrors.ErrRoleNameTaken)
}

func TestService_GetRole_WrongCompany(t *testing.T) {
	repo := &fakeRepo{
		roles: []RoleRow{
			{ID: "role-hr", CompanyID: "company-1", Name: "HR"},
		},
	}
	svc := NewService(repo, newTestEnforcer(t))

	_, err := svc.GetRole("company-2", "role-hr")
	assert.ErrorIs(t, err, rbacerrors.ErrRoleNotFound)

	_, err = svc.GetRole("company-1", "missing")
	assert.ErrorIs(t, err, rbacerrors.ErrRoleNotFound)
}

func TestService_DeleteRole(t *testing.T) {
	repo := &fakeRepo{
		roles: []RoleRow{
			{ID: "role-hr", CompanyID: "company-1", Name: "HR"},
		},
	}
	svc := NewService(repo, newTestEnforcer(t))

	require.NoError(t, svc.DeleteRole("company-1", "role-hr"))
	assert.Equal(t, "role-hr", repo.deleted)
}
