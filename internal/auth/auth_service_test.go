package auth

import (
	"context"
	"database/sql"
	"testing"

	autherrors "hrms-payroll/internal/auth/errors"
	"hrms-payroll/internal/domain"
	"hrms-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
	created *User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *User) error {
	if _, taken := f.byEmail[user.Email]; taken {
		return gorm.ErrDuplicatedKey
	}
	f.created = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeRBAC struct {
	loadedCompany string
}

func (f *fakeRBAC) LoadCompanyPolicy(companyID string) error {
	f.loadedCompany = companyID
	return nil
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) { return true, nil }

func (f *fakeRBAC) ListRoles(companyID string) ([]domain.RoleResponse, error) { return nil, nil }

func (f *fakeRBAC) GetRole(companyID, roleID string) (*domain.RoleResponse, error) {
	return nil, nil
}

func (f *fakeRBAC) CreateRole(companyID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error) {
	return nil, nil
}

func (f *fakeRBAC) UpdateRole(companyID, roleID string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error) {
	return nil, nil
}

func (f *fakeRBAC) DeleteRole(companyID, roleID string) error { return nil }

func (f *fakeRBAC) ListPermissions() ([]domain.PermissionResponse, error) { return nil, nil }

type fakeEmployeeRepo struct {
	employees map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindAllActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error) {
	emp, ok := f.employees[companyID+"/"+id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) FindByEmpCode(ctx context.Context, companyID string, empCode string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) EmailExists(ctx context.Context, email string, excludeID *string) (bool, error) {
	return false, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID string, id string) error {
	return nil
}

func newTestUser(t *testing.T, email, password string) *User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	employeeID := uuid.New()
	return &User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: &employeeID,
		Name:       "Asha Nair",
		Email:      email,
		Password:   string(hashed),
		Role:       "HR",
		IsActive:   true,
	}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := newTestUser(t, "asha@acme.test", "s3cret99")
	repo := &fakeUserRepo{byEmail: map[string]*User{user.Email: user}}
	rbacSvc := &fakeRBAC{}

	svc := NewService(repo, rbacSvc, &fakeEmployeeRepo{})

	access, refresh, resp, err := svc.Login(context.Background(), user.Email, "s3cret99")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, user.Email, resp.Email)
	assert.Equal(t, "HR", resp.Role)
	assert.Equal(t, user.CompanyID.String(), rbacSvc.loadedCompany)
}

func TestService_Login_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := newTestUser(t, "asha@acme.test", "s3cret99")
	repo := &fakeUserRepo{byEmail: map[string]*User{user.Email: user}}

	svc := NewService(repo, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, _, _, err := svc.Login(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := NewService(&fakeUserRepo{}, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, _, _, err := svc.Login(context.Background(), "nobody@acme.test", "whatever")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_RefreshToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := newTestUser(t, "asha@acme.test", "s3cret99")
	repo := &fakeUserRepo{
		byEmail: map[string]*User{user.Email: user},
		byID:    map[uuid.UUID]*User{user.ID: user},
	}
	svc := NewService(repo, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, refresh, _, err := svc.Login(context.Background(), user.Email, "s3cret99")
	require.NoError(t, err)

	access, newRefresh, resp, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, user.Email, resp.Email)
}

func TestService_RefreshToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(&fakeUserRepo{}, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, _, _, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestService_GetMe_InvalidID(t *testing.T) {
	svc := NewService(&fakeUserRepo{}, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, err := svc.GetMe(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	companyID := uuid.New()
	employeeID := uuid.New()
	empRepo := &fakeEmployeeRepo{
		employees: map[string]*employee.Employee{
			companyID.String() + "/" + employeeID.String(): {
				ID:        employeeID,
				CompanyID: companyID,
			},
		},
	}
	repo := &fakeUserRepo{}
	rbacSvc := &fakeRBAC{}
	svc := NewService(repo, rbacSvc, empRepo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		CompanyID:  companyID.String(),
		EmployeeID: employeeID.String(),
		Email:      "new@acme.test",
		Name:       "New Hire",
		Password:   "s3cret99",
	})
	require.NoError(t, err)
	assert.Equal(t, companyID.String(), resp.CompanyID)
	assert.Equal(t, employeeID.String(), resp.EmployeeID)
	require.NotNil(t, repo.created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.Password), []byte("s3cret99")))
	assert.Equal(t, companyID.String(), rbacSvc.loadedCompany)
}

func TestService_Register_EmployeeNotFound(t *testing.T) {
	svc := NewService(&fakeUserRepo{}, &fakeRBAC{}, &fakeEmployeeRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		CompanyID:  uuid.New().String(),
		EmployeeID: uuid.New().String(),
		Email:      "new@acme.test",
		Name:       "New Hire",
		Password:   "s3cret99",
	})
	assert.Error(t, err)
}
