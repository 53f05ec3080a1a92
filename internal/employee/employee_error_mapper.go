package employee

import (
	"errors"
	"strings"

	employeeerrors "hrms-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError converts driver-level failures into coded errors.
// The EmailExists pre-check in Create is only a fast path; under
// concurrent writes the unique indexes are the source of truth and
// violations surface here as 23505.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "idx_employees_email":
				return employeeerrors.ErrEmployeeAlreadyExists
			case "idx_employees_company_code":
				return employeeerrors.ErrEmpCodeAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_employees_email") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_employees_company_code") {
		return employeeerrors.ErrEmpCodeAlreadyExists
	}

	return err
}
