// Package metrics derives dashboard figures from already-fetched snapshots:
// assignment status, submission rates, activity scores and filtered views.
// Every function is pure; none retains or mutates its inputs.
package metrics

import (
	"fmt"
	"math"
	"time"

	"progress-dashboard/internal/domain"
)

const (
	dayMillis = float64(24 * time.Hour / time.Millisecond)
	// dueSoonDays is the inclusive upper bound of the Due Soon window.
	dueSoonDays = 2
)

// Classify returns Submitted when the caller knows the work was handed in and
// otherwise falls back to the due-date classification.
func Classify(due, now time.Time, submitted bool) (domain.DerivedStatus, error) {
	if submitted {
		return domain.StatusSubmitted, nil
	}
	return ClassifyDeadline(due, now)
}

// ClassifyDeadline buckets a due date relative to now using whole days rounded up:
// negative is Past Due, 0..2 is Due Soon, anything later is Upcoming.
func ClassifyDeadline(due, now time.Time) (domain.DerivedStatus, error) {
	if due.IsZero() || now.IsZero() {
		return "", fmt.Errorf("classify due date: %w", domain.ErrInvalidDate)
	}

	// Millisecond resolution keeps the ceil boundary where the dashboard puts it.
	// Sub saturates instead of wrapping for far-apart times.
	diffDays := math.Ceil(float64(due.Sub(now).Milliseconds()) / dayMillis)
	switch {
	case diffDays < 0:
		return domain.StatusPastDue, nil
	case diffDays <= dueSoonDays:
		return domain.StatusDueSoon, nil
	default:
		return domain.StatusUpcoming, nil
	}
}
