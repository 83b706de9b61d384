package service

import "errors"

var (
	// ErrDocumentUploadRequired is returned when a task needs a document
	// before it can be marked Completed and none was supplied.
	ErrDocumentUploadRequired = errors.New("document upload required")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidInput           = errors.New("invalid input")
)
