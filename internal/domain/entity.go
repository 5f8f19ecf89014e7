package domain

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateTimeLayout is the wire format for event start and end times.
const DateTimeLayout = "2006-01-02T15:04:05"

// Entity is implemented by the pointer type of every stored record.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
	// Normalize recomputes derived fields and validates the record. It runs
	// before every write.
	Normalize() error
}

// Stamped entities carry creation and modification dates.
type Stamped interface {
	Stamp(now time.Time, creating bool)
}

// Patch is a typed partial update. Nil fields are left unchanged.
type Patch[T any] interface {
	Apply(*T)
}

// PatchFunc adapts a function to Patch.
type PatchFunc[T any] func(*T)

func (f PatchFunc[T]) Apply(v *T) { f(v) }

// Ref is an id + display-name snapshot of another record.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Round2 rounds v to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Invalid(field, "is required")
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return Invalid(field, "must not be negative (got %v)", v)
	}
	return nil
}

func optionalDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return Invalid(field, "%q is not a date (want YYYY-MM-DD)", v)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
