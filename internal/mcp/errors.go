package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, process.ErrInvalidInput),
		errors.Is(err, list.ErrInvalidInput),
		errors.Is(err, card.ErrInvalidInput),
		errors.Is(err, errInvalidParams):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error(), RecoveryHint: "Fix the input and retry"}
	case errors.Is(err, process.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_NAME", Message: err.Error(), RecoveryHint: "Choose another process name"}
	case errors.Is(err, process.ErrProcessNotFound):
		return &APIError{Code: "PROCESS_NOT_FOUND", Message: "process not found", RecoveryHint: "Check the name with list_processes"}
	case errors.Is(err, list.ErrListNotFound):
		return &APIError{Code: "LIST_NOT_FOUND", Message: "list not found", RecoveryHint: "Check the id with list_lists"}
	case errors.Is(err, card.ErrCardNotFound):
		return &APIError{Code: "CARD_NOT_FOUND", Message: "card not found", RecoveryHint: "Check the id with list_cards"}
	case errors.Is(err, chart.ErrChartNotFound):
		return &APIError{Code: "CHART_NOT_FOUND", Message: "chart not found", RecoveryHint: "Check the id with list_charts"}
	default:
		return nil
	}
}

func internalError(err error) *APIError {
	return &APIError{Code: "INTERNAL", Message: err.Error()}
}
