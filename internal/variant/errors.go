package variant

import "fmt"

// InvalidVariantError reports a raw variant record whose identity fields
// are missing or malformed. It aborts the merge for the affected patient.
type InvalidVariantError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid variant: %s %q: %s", e.Field, e.Value, e.Reason)
}
