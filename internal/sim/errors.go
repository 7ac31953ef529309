package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidIntent is the parent of every rejected player intent.
// Rejections never change state; callers test with errors.Is.
var ErrInvalidIntent = errors.New("invalid intent")

var (
	ErrBusy            = fmt.Errorf("%w: an activity is in progress", ErrInvalidIntent)
	ErrIneligible      = fmt.Errorf("%w: activity not available now", ErrInvalidIntent)
	ErrUnknownActivity = fmt.Errorf("%w: unknown activity", ErrInvalidIntent)
	ErrUnknownRoom     = fmt.Errorf("%w: unknown room", ErrInvalidIntent)
	ErrInvalidSpeed    = fmt.Errorf("%w: speed out of range", ErrInvalidIntent)
)

// ErrCorruptSave reports a save blob or restored state that failed validation.
var ErrCorruptSave = errors.New("corrupt save")

// ErrNoSaveSlot is returned by Save and Load on a controller without a slot.
var ErrNoSaveSlot = errors.New("no save slot configured")

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSave, fmt.Sprintf(format, args...))
}
