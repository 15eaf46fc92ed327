package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Recoverable, user-facing states. Handlers map these to 4xx responses;
// none of them is fatal to the session.
var (
	ErrSessionNotFound       = errors.New("form session not found")
	ErrForbidden             = errors.New("session belongs to another user")
	ErrSubmitInFlight        = errors.New("submission already in progress")
	ErrInsufficientSelection = errors.New("select at least one color and one size")
	ErrDuplicateLabel        = errors.New("label already exists")
	ErrVariantNotFound       = errors.New("variant not found")
	ErrUnknownStep           = errors.New("unknown wizard step")
	ErrAtLastStep            = errors.New("already at the last step; submit explicitly")
	ErrJumpNotAllowed        = errors.New("jump is only allowed backward from the review step")
	ErrNotAtFinalStep        = errors.New("submission requires the final step")
	ErrUnknownAttributeSet   = errors.New("unknown attribute set")
)

// FieldErrors carries per-field validation messages for a wizard step.
// It satisfies error so Advance can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
