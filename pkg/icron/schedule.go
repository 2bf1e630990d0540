package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour |
	cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse parses a schedule expression. Accepts descriptors such as "@every 5s"
// as well as standard five-field and optional-seconds six-field expressions.
func Parse(expr string) (cron.Schedule, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule expression: %w", err)
	}
	return schedule, nil
}

// Interval returns the gap between the first two activations of expr after refTime.
// Used to size stall thresholds relative to the poll cadence.
func Interval(expr string, refTime time.Time) (time.Duration, error) {
	schedule, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	first := schedule.Next(refTime)
	second := schedule.Next(first)
	if first.IsZero() || second.IsZero() {
		return 0, fmt.Errorf("schedule %q never fires", expr)
	}
	return second.Sub(first), nil
}
