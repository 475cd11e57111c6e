package domain

// DerivedStatus is recomputed on every read from a due date, the current time and,
// where known, the submission flag. It is never persisted.
type DerivedStatus string

const (
	StatusUpcoming  DerivedStatus = "upcoming"
	StatusDueSoon   DerivedStatus = "due_soon"
	StatusPastDue   DerivedStatus = "past_due"
	StatusSubmitted DerivedStatus = "submitted"
)

// Label is the human readable form used for display and status filtering.
func (s DerivedStatus) Label() string {
	switch s {
	case StatusUpcoming:
		return "Upcoming"
	case StatusDueSoon:
		return "Due Soon"
	case StatusPastDue:
		return "Past Due"
	case StatusSubmitted:
		return "Submitted"
	default:
		return ""
	}
}

// Style is the color hint the dashboard renders the status tag with.
func (s DerivedStatus) Style() string {
	switch s {
	case StatusUpcoming:
		return "blue"
	case StatusDueSoon:
		return "orange"
	case StatusPastDue:
		return "red"
	case StatusSubmitted:
		return "green"
	default:
		return "default"
	}
}

func (s DerivedStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusDueSoon, StatusPastDue, StatusSubmitted:
		return true
	default:
		return false
	}
}
