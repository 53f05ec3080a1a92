package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	employeeerrors "hrms-payroll/internal/employee/errors"
	"hrms-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var genderCaser = cases.Title(language.English)

const (
	employeeOptionsKeyPrefix = "employees:options:"
	employeeOptionsTTL       = 10 * time.Minute
	counterTypeEmpCode       = "emp_code"
)

func optionsCacheKey(companyID string) string {
	return employeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, rdb: rdb, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	if err := validateMoneyFields(req.BasicMonthly, req.HRAMonthly,
		req.OtherAllowanceMonthly, req.PFMonthlyContribution, req.ESICMonthly); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmailExists(ctx, req.Email, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}

	seq, err := s.counter.GetNextValue(ctx, companyID, counterTypeEmpCode)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp := &Employee{
		ID:                    uuid.New(),
		CompanyID:             companyUUID,
		EmpCode:               fmt.Sprintf("EMP%04d", seq),
		FullName:              req.FullName,
		Email:                 req.Email,
		Gender:                normalizeGender(req.Gender),
		PayGroup:              req.PayGroup,
		BasicMonthly:          req.BasicMonthly,
		HRAMonthly:            req.HRAMonthly,
		OtherAllowanceMonthly: req.OtherAllowanceMonthly,
		PFMonthlyContribution: req.PFMonthlyContribution,
		ESICMonthly:           req.ESICMonthly,
		IsActive:              true,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("employee created",
		zap.String("company_id", companyID),
		zap.String("emp_code", emp.EmpCode),
	)
	return mapToResponse(*emp), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

// GetOptions serves the dropdown list from redis; cache misses are
// de-duplicated per company through singleflight so a cold cache does
// not stampede the database.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeOption, error) {
	key := optionsCacheKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var opts []EmployeeOption
			if err := json.Unmarshal([]byte(cached), &opts); err == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		emps, err := s.repo.FindAllActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		opts := make([]EmployeeOption, len(emps))
		for i, e := range emps {
			opts[i] = EmployeeOption{
				ID:       e.ID.String(),
				EmpCode:  e.EmpCode,
				FullName: e.FullName,
			}
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(opts); err == nil {
				_ = s.rdb.Set(ctx, key, payload, employeeOptionsTTL).Err()
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*emp), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if err := validateMoneyFields(req.BasicMonthly, req.HRAMonthly,
		req.OtherAllowanceMonthly, req.PFMonthlyContribution, req.ESICMonthly); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	exists, err := qtx.EmailExists(ctx, req.Email, &id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}

	emp.FullName = req.FullName
	emp.Email = req.Email
	emp.Gender = normalizeGender(req.Gender)
	emp.PayGroup = req.PayGroup
	emp.BasicMonthly = req.BasicMonthly
	emp.HRAMonthly = req.HRAMonthly
	emp.OtherAllowanceMonthly = req.OtherAllowanceMonthly
	emp.PFMonthlyContribution = req.PFMonthlyContribution
	emp.ESICMonthly = req.ESICMonthly
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, companyID)
	return mapToResponse(*emp), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateOptions(ctx, companyID)
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, optionsCacheKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate employee options cache failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
}

// validateMoneyFields rejects negative values at write time. Empty and
// unparseable values are allowed; the payroll engine coerces them to
// zero when it reads.
func validateMoneyFields(values ...string) error {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		if parsed < 0 {
			return employeeerrors.ErrNegativeMoneyValue
		}
	}
	return nil
}

func normalizeGender(g string) string {
	g = strings.TrimSpace(g)
	if g == "" {
		return g
	}
	return genderCaser.String(strings.ToLower(g))
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                    e.ID.String(),
		CompanyID:             e.CompanyID.String(),
		EmpCode:               e.EmpCode,
		FullName:              e.FullName,
		Email:                 e.Email,
		Gender:                e.Gender,
		PayGroup:              e.PayGroup,
		BasicMonthly:          e.BasicMonthly,
		HRAMonthly:            e.HRAMonthly,
		OtherAllowanceMonthly: e.OtherAllowanceMonthly,
		PFMonthlyContribution: e.PFMonthlyContribution,
		ESICMonthly:           e.ESICMonthly,
		IsActive:              e.IsActive,
	}
}
