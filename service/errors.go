package service

import "errors"

var (
	ErrInvalidChunkConfig = errors.New("chunk size must be greater than overlap and overlap must not be negative")
	ErrUploadFailed       = errors.New("failed to upload source document")
	ErrDocumentNotReady   = errors.New("source document is not active")
	ErrGenerationFailed   = errors.New("failed to generate content")
	ErrEmptyResponse      = errors.New("model returned empty content")
)
