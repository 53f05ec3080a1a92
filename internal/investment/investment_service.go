package investment

import (
	"context"
	"errors"
	"strconv"
	"strings"

	investmenterrors "hrms-payroll/internal/investment/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=investment_service.go -destination=mock/investment_service_mock.go -package=mock
type Service interface {
	Declare(ctx context.Context, companyID string, req DeclareTDSRequest) (DeclarationResponse, error)
	GetForEmployee(ctx context.Context, companyID, employeeID string) (DeclarationResponse, error)
	// DeclaredTDS is the payroll feed: the declared amount coerced to
	// float. No declaration, or an unparseable stored value, yields 0.
	DeclaredTDS(ctx context.Context, companyID, employeeID string) (float64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("investment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("investment.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Declare(ctx context.Context, companyID string, req DeclareTDSRequest) (DeclarationResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DeclarationResponse{}, investmenterrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return DeclarationResponse{}, investmenterrors.ErrInvalidEmployeeID
	}

	amount := strings.TrimSpace(req.TDSThisMonth)
	if amount == "" {
		amount = "0"
	}
	if parsed, err := strconv.ParseFloat(amount, 64); err == nil && parsed < 0 {
		return DeclarationResponse{}, investmenterrors.ErrNegativeTDS
	}

	decl := &InvestmentDeclaration{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		EmployeeID:   employeeUUID,
		TDSThisMonth: amount,
	}
	if err := s.repo.Upsert(ctx, decl); err != nil {
		return DeclarationResponse{}, err
	}

	s.logger.Info("tds declared",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapToResponse(*decl), nil
}

func (s *service) GetForEmployee(ctx context.Context, companyID, employeeID string) (DeclarationResponse, error) {
	decl, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeclarationResponse{}, investmenterrors.ErrDeclarationNotFound
		}
		return DeclarationResponse{}, err
	}
	return mapToResponse(*decl), nil
}

func (s *service) DeclaredTDS(ctx context.Context, companyID, employeeID string) (float64, error) {
	decl, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(decl.TDSThisMonth), 64)
	if err != nil {
		s.logger.Warn("unparseable declared tds, defaulting to 0",
			zap.String("employee_id", employeeID),
			zap.String("value", decl.TDSThisMonth),
		)
		return 0, nil
	}
	return parsed, nil
}

func mapToResponse(d InvestmentDeclaration) DeclarationResponse {
	return DeclarationResponse{
		ID:           d.ID.String(),
		EmployeeID:   d.EmployeeID.String(),
		TDSThisMonth: d.TDSThisMonth,
	}
}
