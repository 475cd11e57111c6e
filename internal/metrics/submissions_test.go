package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"progress-dashboard/internal/domain"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		subs      []domain.StudentSubmission
		rate      float64
		submitted int
	}{
		{"empty", []domain.StudentSubmission{}, 0, 0},
		{"nil", nil, 0, 0},
		{"none submitted", []domain.StudentSubmission{{StudentID: "s1"}, {StudentID: "s2"}}, 0, 0},
		{"one of three", []domain.StudentSubmission{{StudentID: "s1", Submitted: true}, {StudentID: "s2"}, {StudentID: "s3"}}, 100.0 / 3, 1},
		{"all submitted", []domain.StudentSubmission{{StudentID: "s1", Submitted: true}}, 100, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stats := Aggregate(tc.subs)
			assert.InDelta(t, tc.rate, stats.Rate, 1e-9)
			assert.Equal(t, tc.submitted, stats.Submitted)
			assert.Equal(t, len(tc.subs), stats.Total)
			assert.GreaterOrEqual(t, stats.Rate, 0.0)
			assert.LessOrEqual(t, stats.Rate, 100.0)
		})
	}
}

func TestAverageRate(t *testing.T) {
	assert.Equal(t, 0.0, AverageRate(nil))
	assert.Equal(t, 0.0, AverageRate([]domain.Assignment{}))

	assignments := []domain.Assignment{
		{ID: "a1", StudentSubmissions: []domain.StudentSubmission{{StudentID: "s1", Submitted: true}, {StudentID: "s2"}}},
		{ID: "a2", StudentSubmissions: []domain.StudentSubmission{{StudentID: "s1", Submitted: true}}},
		{ID: "a3"},
	}
	// (50 + 100 + 0) / 3
	assert.InDelta(t, 50.0, AverageRate(assignments), 1e-9)
}
