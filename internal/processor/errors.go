package processor

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// UnitError is the failure of the unit of work for a single item. Err wraps
// domain.ErrProcessingCancelled or domain.ErrPersistence.
type UnitError struct {
	ItemID int64
	Err    error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("item %d: %v", e.ItemID, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// FailedUnits lists every unit failure contained in an error returned by
// ProcessAll, in the order they were aggregated.
func FailedUnits(err error) []*UnitError {
	var out []*UnitError
	for _, e := range multierr.Errors(errors.Unwrap(err)) {
		var ue *UnitError
		if errors.As(e, &ue) {
			out = append(out, ue)
		}
	}
	return out
}
