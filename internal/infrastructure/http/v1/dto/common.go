// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
)

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ParseIDs parses repeated query values into IDs.
func ParseIDs(field string, values []string) ([]id.ID, error) {
	ids, err := id.ParseAll(values)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").
			WithDetail("field", field).
			WithDetail("error", err.Error())
	}
	return ids, nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp. Empty input yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperror.NewValidation("invalid date format").
		WithDetail("field", field).
		WithDetail("value", value)
}
