package leave

import (
	"time"

	leaveerrors "go-leave/internal/leave/errors"
)

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, leaveerrors.ErrInvalidDateRange
	}
	return Range{Start: start, End: end}, nil
}

// Overlaps is the in-memory twin of Repository.HasOverlappingPeriod.
// Ranges that only touch at an endpoint do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
