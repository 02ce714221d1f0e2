package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	// Fatal == false означает штатную раннюю остановку прогона, а не сбой
	Fatal bool  `json:"fatal"`
	cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал для копий с причиной
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
		Fatal:      true,
	}
}

// NewNonFatal - ошибка, после которой прогон завершается без аварии
func NewNonFatal(code, message string, statusCode int) *AppError {
	e := New(code, message, statusCode)
	e.Fatal = false
	return e
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

// WithCause возвращает копию ошибки с исходной причиной
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.cause = err
	return &c
}

// As достаёт AppError из цепочки ошибок
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNonFatal - true для ошибок, которые завершают прогон штатно
func IsNonFatal(err error) bool {
	appErr, ok := As(err)
	return ok && !appErr.Fatal
}

var (
	ErrExtraction = New(
		"EXTRACTION_FAILED",
		"Failed to extract trip info from user input",
		http.StatusUnprocessableEntity,
	)

	ErrGeocoding = New(
		"GEOCODING_FAILED",
		"Failed to geocode one or more locations",
		http.StatusUnprocessableEntity,
	)

	ErrImport = New(
		"IMPORT_FAILED",
		"Failed to import scenario",
		http.StatusBadGateway,
	)

	ErrSimulation = New(
		"SIMULATION_FAILED",
		"Simulation server call failed",
		http.StatusBadGateway,
	)

	ErrNoRoadsUsed = NewNonFatal(
		"NO_ROADS_USED",
		"No roads detected in scenario",
		http.StatusUnprocessableEntity,
	)

	ErrNoFinishedTrips = NewNonFatal(
		"NO_FINISHED_TRIPS",
		"No finished trips to compute metrics from",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidRoadSelection = New(
		"INVALID_ROAD_SELECTION",
		"Road IDs not in detected roads",
		http.StatusBadRequest,
	)

	ErrPersistence = NewNonFatal(
		"PERSISTENCE_FAILED",
		"Failed to persist run summary",
		http.StatusInternalServerError,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Scenario session not found or expired",
		http.StatusNotFound,
	)

	ErrSimulationBusy = New(
		"SIMULATION_BUSY",
		"Simulation server is busy with another run",
		http.StatusServiceUnavailable,
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
