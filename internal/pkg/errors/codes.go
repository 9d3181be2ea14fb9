package errors

import "net/http"

var (
	ErrZoneNotFound = New(
		"ZONE_NOT_FOUND",
		"Zone not found",
		http.StatusNotFound,
	)

	ErrInvalidZoneID = New(
		"INVALID_ZONE_ID",
		"Invalid zone ID",
		http.StatusBadRequest,
	)

	ErrInvalidPagination = New(
		"INVALID_PAGINATION",
		"Invalid page or limit",
		http.StatusBadRequest,
	)

	ErrInvalidRunKind = New(
		"INVALID_RUN_KIND",
		"Unknown sync run kind",
		http.StatusBadRequest,
	)

	ErrRunReportNotFound = New(
		"RUN_REPORT_NOT_FOUND",
		"No report for this run kind",
		http.StatusNotFound,
	)

	ErrDuplicateZone = New(
		"DUPLICATE_ZONE",
		"Zone with this address or external reference already exists",
		http.StatusConflict,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheDisabled = New(
		"CACHE_DISABLED",
		"Run report cache is not configured",
		http.StatusServiceUnavailable,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
