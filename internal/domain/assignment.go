package domain

// ClassRef is the populated class reference embedded in an assignment.
type ClassRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Class is a teaching group assignments are published to.
type Class struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	TeacherID string `json:"teacherId"`
}

// StudentSubmission is one student's hand-in state for an assignment.
type StudentSubmission struct {
	StudentID string  `json:"studentId" validate:"required"`
	Submitted bool    `json:"submitted"`
	RepoURL   *string `json:"repoUrl"`
}

// Assignment is a read-only snapshot of an assignment as served by the backend.
type Assignment struct {
	ID                 string              `json:"id" validate:"required"`
	Title              string              `json:"title" validate:"required"`
	Description        string              `json:"description"`
	DueDate            Timestamp           `json:"dueDate"`
	Points             int                 `json:"points" validate:"gte=0"`
	Class              ClassRef            `json:"class"`
	TeacherID          string              `json:"teacherId"`
	StudentSubmissions []StudentSubmission `json:"studentRepos" validate:"unique=StudentID,dive"`
}

// SubmissionFor returns the submission recorded for studentID, if any.
func (a Assignment) SubmissionFor(studentID string) (StudentSubmission, bool) {
	for _, sub := range a.StudentSubmissions {
		if sub.StudentID == studentID {
			return sub, true
		}
	}
	return StudentSubmission{}, false
}

// SubmissionStats summarizes hand-ins for one assignment. Rate is a percentage in
// [0, 100] kept at full precision.
type SubmissionStats struct {
	Rate      float64 `json:"rate"`
	Submitted int     `json:"submittedCount"`
	Total     int     `json:"total"`
}

// FilterQuery narrows an assignment list. Empty Status or Class behave like "all".
// ViewerID, when set, lets the viewer's own submission mark assignments Submitted.
type FilterQuery struct {
	Text     string `json:"text"`
	Status   string `json:"statusFilter"`
	Class    string `json:"classFilter"`
	ViewerID string `json:"viewerId,omitempty"`
}
