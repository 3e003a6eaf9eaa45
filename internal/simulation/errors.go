package simulation

import "fmt"

// InvalidInputError reports an input that would make the sizing unbounded
// (zero irradiance) or undefined (NaN consumption).
type InvalidInputError struct {
	Field string
	Value float64
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Msg)
}
