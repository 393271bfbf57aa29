package handler

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxExpressionLen = 4096

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	FileID string `json:"file_id" example:"9b2e4a4e-3a7c-4a57-9a47-1c51d1f1a6b1"`
	Query  string `json:"query" example:"price > 10 and category == 'books'"`
}

// Validate checks the request. An empty query is left to the filter, which reports it as a query error.
func (r QueryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileID, validation.Required),
		validation.Field(&r.Query, validation.Length(0, maxExpressionLen)),
	)
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	FileID   string `json:"file_id" example:"9b2e4a4e-3a7c-4a57-9a47-1c51d1f1a6b1"`
	Question string `json:"question" example:"Which product sold the most units?"`
}

func (r AskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileID, validation.Required),
		validation.Field(&r.Question, validation.Required, validation.Length(1, maxExpressionLen)),
	)
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	FileID  string `json:"file_id"`
	Message string `json:"message" example:"Upload successful"`
}

// TextResponse carries query results and answers. IsError marks Response as an error message.
type TextResponse struct {
	Response string `json:"response"`
	IsError  bool   `json:"is_error"`
}

// ContentResponse is returned by GET /content/{file_id}.
type ContentResponse struct {
	Response string `json:"response"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
