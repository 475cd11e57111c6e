package domain

import "time"

// AssignmentSummary is one row of the admin overview.
type AssignmentSummary struct {
	Assignment  Assignment      `json:"assignment"`
	Status      DerivedStatus   `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	StatusStyle string          `json:"statusStyle"`
	Stats       SubmissionStats `json:"stats"`
}

// Overview aggregates every assignment without a viewer, so statuses use the
// three-way due-date classification.
type Overview struct {
	Assignments  []AssignmentSummary   `json:"assignments"`
	AverageRate  float64               `json:"averageRate"`
	StatusCounts map[DerivedStatus]int `json:"statusCounts"`
	GeneratedAt  time.Time             `json:"generatedAt"`
}

// StudentAssignment is an assignment as seen by one student.
type StudentAssignment struct {
	Assignment  Assignment        `json:"assignment"`
	Submission  StudentSubmission `json:"submission"`
	Status      DerivedStatus     `json:"status"`
	StatusLabel string            `json:"statusLabel"`
	StatusStyle string            `json:"statusStyle"`
}

// DashboardSnapshot is pushed to live subscribers each refresh.
type DashboardSnapshot struct {
	StudentID   string              `json:"studentId,omitempty"`
	Overview    *Overview           `json:"overview,omitempty"`
	Assignments []StudentAssignment `json:"assignments,omitempty"`
	Activity    *ActivityScore      `json:"activity,omitempty"`
	Err         error               `json:"-"`
}

// Snapshot is the import/export document: everything the dashboard reads.
type Snapshot struct {
	Classes     []Class           `json:"classes" validate:"dive"`
	Assignments []Assignment      `json:"assignments" validate:"unique=ID,dive"`
	Activity    []StudentActivity `json:"activity" validate:"unique=StudentID,dive"`
}
