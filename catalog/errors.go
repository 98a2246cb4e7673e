package catalog

import (
	"fmt"
	"strconv"
)

// ValidationError marks input rejected before any store mutation was issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError marks a referenced parent entity that does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.Key)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
