package payrollerrors

import (
	"net/http"

	"hrms-payroll/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, month must be 1-12 and year positive",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveSpan = apperror.New(
		apperror.CodeInvalidInput,
		"leave start date is after its end date",
		http.StatusBadRequest,
	)
	ErrInvalidEmpCode = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee code",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidFiscalYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid fiscal year",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found for payroll computation",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll run status transition",
		http.StatusBadRequest,
	)
	ErrPaidAtRequired = apperror.New(
		apperror.CodeInvalidInput,
		"paid_at is required when marking a run as paid",
		http.StatusBadRequest,
	)
	ErrInvalidPaidAt = apperror.New(
		apperror.CodeInvalidInput,
		"invalid paid_at, expected RFC3339 or YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"no active employees matched the request",
		http.StatusBadRequest,
	)
)
