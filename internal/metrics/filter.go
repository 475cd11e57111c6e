package metrics

import (
	"fmt"
	"strings"
	"time"

	"progress-dashboard/internal/domain"
)

// FilterAll is the sentinel that disables the status or class predicate.
const FilterAll = "all"

// Filter returns the assignments matching every predicate of q, in input order.
// Status is derived against now; it honors the viewer's own submission only when
// q.ViewerID is set.
func Filter(assignments []domain.Assignment, q domain.FilterQuery, now time.Time) ([]domain.Assignment, error) {
	if assignments == nil {
		return nil, fmt.Errorf("filter assignments: nil list: %w", domain.ErrInvalidInput)
	}

	text := strings.ToLower(q.Text)
	status := strings.ToLower(q.Status)
	class := q.Class

	out := make([]domain.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !isAll(class) && a.Class.ID != class {
			continue
		}
		if !isAll(status) {
			ok, err := matchesStatus(a, status, q.ViewerID, now)
			if err != nil {
				return nil, fmt.Errorf("filter assignment %s: %w", a.ID, err)
			}
			if !ok {
				continue
			}
		}
		if !matchesText(a, text) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, FilterAll)
}

func matchesStatus(a domain.Assignment, filter, viewerID string, now time.Time) (bool, error) {
	submitted := false
	if viewerID != "" {
		if sub, ok := a.SubmissionFor(viewerID); ok {
			submitted = sub.Submitted
		}
	}
	st, err := Classify(a.DueDate.Time, now, submitted)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(st.Label()), filter), nil
}

func matchesText(a domain.Assignment, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Description), needle) ||
		strings.Contains(strings.ToLower(a.Class.Name), needle)
}
