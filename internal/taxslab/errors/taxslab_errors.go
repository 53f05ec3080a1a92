package taxslaberrors

import (
	"net/http"

	"hrms-payroll/internal/shared/apperror"
)

var (
	ErrSlabConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"no active professional tax slab configuration",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrTooManyBands = apperror.New(
		apperror.CodeInvalidInput,
		"a slab configuration holds at most 5 bands",
		http.StatusBadRequest,
	)
	ErrInvalidBandRange = apperror.New(
		apperror.CodeInvalidInput,
		"band min_limit must not exceed max_limit",
		http.StatusBadRequest,
	)
	ErrInvalidBandGender = apperror.New(
		apperror.CodeInvalidInput,
		"band gender must be All, Male or Female",
		http.StatusBadRequest,
	)
)
