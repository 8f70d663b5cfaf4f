package clockzone

import (
	"fmt"
	"time"

	"github.com/chivanit/medremind/internal/domain"
)

// LocalTime is a point in time projected into a prescription's zone.
// Date is the local calendar date in UTC-midnight form so it can be used
// directly as the intake/notification date key.
type LocalTime struct {
	Date        time.Time
	MinuteOfDay int
	Zone        string
}

// Resolver converts instants to local calendar coordinates using the
// timezone database. Conversion never uses fixed offsets, so DST zones
// resolve correctly.
type Resolver struct {
	defaultZone *time.Location
}

// NewResolver builds a resolver with the fallback zone used when a
// prescription carries no timezone of its own.
func NewResolver(defaultZone string) (*Resolver, error) {
	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTimezone, defaultZone)
	}
	return &Resolver{defaultZone: loc}, nil
}

// Resolve projects the instant into the given IANA zone. An empty zone
// falls back to the resolver default; an unrecognized zone fails closed.
func (r *Resolver) Resolve(at time.Time, zone string) (LocalTime, error) {
	loc := r.defaultZone
	if zone != "" {
		parsed, err := time.LoadLocation(zone)
		if err != nil {
			return LocalTime{}, fmt.Errorf("%w: %q", domain.ErrUnknownTimezone, zone)
		}
		loc = parsed
	}

	local := at.In(loc)
	return LocalTime{
		Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		MinuteOfDay: local.Hour()*60 + local.Minute(),
		Zone:        loc.String(),
	}, nil
}
