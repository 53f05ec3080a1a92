package rbac

import (
	"errors"
	"strings"
	"sync"

	"hrms-payroll/internal/domain"
	rbacerrors "hrms-payroll/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles(companyID string) ([]domain.RoleResponse, error)
	GetRole(companyID, roleID string) (*domain.RoleResponse, error)
	CreateRole(companyID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(companyID, roleID string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(companyID, roleID string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

// loadCompanyPolicyUnlocked rebuilds the in-memory model from the
// database for one company. The enforcer holds a single company's
// policy at a time, so every Enforce reloads under the mutex.
func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(companyID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("company policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)))

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err))
		return false, err
	}

	s.logger.Debug("enforce",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed))

	return allowed, nil
}

func (s *service) ListRoles(companyID string) ([]domain.RoleResponse, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, rbacerrors.ErrInvalidCompanyID
	}

	rows, err := s.repo.ListRoles(companyID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(rows))
	for i := range rows {
		resp, err := s.mapRole(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *service) GetRole(companyID, roleID string) (*domain.RoleResponse, error) {
	row, err := s.findCompanyRole(companyID, roleID)
	if err != nil {
		return nil, err
	}
	return s.mapRole(row)
}

func (s *service) CreateRole(companyID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, rbacerrors.ErrInvalidCompanyID
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.GetRoleByName(companyID, name); err == nil {
		return nil, rbacerrors.ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &RoleRow{
		CompanyID:   companyID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateRole(row); err != nil {
		return nil, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created",
		zap.String("company_id", companyID),
		zap.String("role_id", row.ID),
		zap.String("name", row.Name))

	return s.mapRole(row)
}

func (s *service) UpdateRole(companyID, roleID string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error) {
	row, err := s.findCompanyRole(companyID, roleID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != row.Name {
		if _, err := s.repo.GetRoleByName(companyID, name); err == nil {
			return nil, rbacerrors.ErrRoleNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		row.Name = name
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		row.Description = desc
	}

	if err := s.repo.UpdateRole(row); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role updated",
		zap.String("company_id", companyID),
		zap.String("role_id", row.ID))

	return s.mapRole(row)
}

func (s *service) DeleteRole(companyID, roleID string) error {
	row, err := s.findCompanyRole(companyID, roleID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRole(row.ID); err != nil {
		return err
	}

	s.logger.Info("role deleted",
		zap.String("company_id", companyID),
		zap.String("role_id", row.ID))

	return nil
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(rows))
	for _, p := range rows {
		result = append(result, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}
	return result, nil
}

func (s *service) findCompanyRole(companyID, roleID string) (*RoleRow, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, rbacerrors.ErrInvalidCompanyID
	}

	row, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbacerrors.ErrRoleNotFound
		}
		return nil, err
	}
	if row.CompanyID != companyID {
		return nil, rbacerrors.ErrRoleNotFound
	}
	return row, nil
}

func (s *service) mapRole(row *RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return nil, err
	}

	permIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		permIDs = append(permIDs, p.ID)
	}

	return &domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permIDs,
	}, nil
}
