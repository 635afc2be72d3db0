package service

import (
	"fmt"

	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
)

// UploadError means the payment screenshot could not be stored. No row was
// written.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload payment screenshot: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError means the store rejected or failed the insert. OrphanedURL is
// set when an object had already been uploaded for the rejected row.
type PersistenceError struct {
	Entity      schema.Kind
	Err         error
	OrphanedURL string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
