package forms

import "errors"

var (
	// ErrNotFound signals an update or delete against an id that does not
	// exist. Handlers map it to 404.
	ErrNotFound = errors.New("forms: not found")

	// ErrNothingToUpdate signals a patch with no recognized slots set.
	ErrNothingToUpdate = errors.New("forms: no updateable fields provided")

	// ErrNoValidAnswers signals an answer batch that is empty after
	// discarding incomplete pairs.
	ErrNoValidAnswers = errors.New("forms: no valid answers provided")

	// ErrParentNotFound signals a parent_field_id that references no field.
	ErrParentNotFound = errors.New("forms: parent field not found")

	// ErrParentForm signals a parent_field_id that references a field
	// belonging to a different form.
	ErrParentForm = errors.New("forms: parent field belongs to another form")

	// ErrParentCycle signals a reparent that would make a field its own
	// ancestor.
	ErrParentCycle = errors.New("forms: parent chain would form a cycle")
)
