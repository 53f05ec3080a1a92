package investmenterrors

import (
	"net/http"

	"hrms-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrNegativeTDS = apperror.New(
		apperror.CodeInvalidInput,
		"declared tds must not be negative",
		http.StatusBadRequest,
	)
	ErrDeclarationNotFound = apperror.New(
		apperror.CodeNotFound,
		"no tds declaration for this employee",
		http.StatusNotFound,
	)
)
