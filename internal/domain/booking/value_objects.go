package booking

import (
	"time"

	"shareit/internal/pkg/errs"
)

var ErrInvalidPeriod = errs.New("start date must be before end date")

// Period is the booked time window. Start is strictly before End; equal
// instants are rejected.
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	if !start.Before(end) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: start, end: end}, nil
}

// ReconstructPeriod rebuilds a period from stored values, which were
// validated on the way in.
func ReconstructPeriod(start, end time.Time) Period {
	return Period{start: start, end: end}
}

func (p Period) Start() time.Time {
	return p.start
}

func (p Period) End() time.Time {
	return p.end
}
