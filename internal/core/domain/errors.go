package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Input Rejections.

	// ErrNoFiles indicates an analysis batch with no documents.
	ErrNoFiles = errors.New("no files selected")

	// ErrUnsupportedMIMEType indicates a document type the extractor cannot read.
	ErrUnsupportedMIMEType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates a document above MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrDuplicateFileName indicates two documents in one batch share a name.
	ErrDuplicateFileName = errors.New("duplicate file name")

	// ErrEmptyQuestion indicates a blank chat message.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrUnknownField indicates a field key outside the canonical set.
	ErrUnknownField = errors.New("unknown field")

	// Session Errors.

	// ErrNoActiveSession indicates no session is currently active.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionInactive indicates a result arrived for a session that is no
	// longer active. The result is discarded.
	ErrSessionInactive = errors.New("session no longer active")

	// ErrNoDocuments indicates the session holds no analysed documents.
	ErrNoDocuments = errors.New("no analysed documents")

	// Collaborator Errors.

	// ErrLLMUnavailable indicates the AI service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrMalformedResponse indicates the AI returned text that is not the
	// expected JSON object.
	ErrMalformedResponse = errors.New("malformed AI response")

	// ErrRateLimited indicates the AI API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
