package store

import "github.com/ayush/rv-checklist/backend/internal/apperr"

func errTemplateNotFound(id string) error {
	return apperr.Newf(apperr.KindNotFound, "Checklist template with ID %s not found", id)
}

func errInstanceNotFound(id string) error {
	return apperr.Newf(apperr.KindNotFound, "Checklist instance with ID %s not found", id)
}

var (
	errEmailTaken       = apperr.New(apperr.KindConflict, "Email already in use")
	errRevisionConflict = apperr.New(apperr.KindConflict, "Checklist instance was modified concurrently, reload and retry")
)
