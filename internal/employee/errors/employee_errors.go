package employeeerrors

import (
	"net/http"

	"hrms-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmpCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists for this company",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrNegativeMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"Compensation values cannot be negative",
		http.StatusBadRequest,
	)
)
