package rbacerrors

import (
	"net/http"

	"hrms-payroll/internal/shared/apperror"
)

var (
	ErrRoleNotFound     = apperror.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	ErrRoleNameTaken    = apperror.New("ROLE_NAME_TAKEN", "A role with this name already exists", http.StatusConflict)
	ErrInvalidCompanyID = apperror.New("INVALID_COMPANY_ID", "Invalid company id", http.StatusBadRequest)
)
