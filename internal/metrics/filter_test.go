package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progress-dashboard/internal/domain"
)

func sampleAssignments() []domain.Assignment {
	day := 24 * time.Hour
	return []domain.Assignment{
		{
			ID: "a1", Title: "Sorting Algorithms", Description: "Implement merge sort",
			DueDate: domain.NewTimestamp(testNow.Add(10 * day)),
			Class:   domain.ClassRef{ID: "c1", Name: "CS101"},
		},
		{
			ID: "a2", Title: "Linked lists", Description: "Pointers everywhere",
			DueDate: domain.NewTimestamp(testNow.Add(day)),
			Class:   domain.ClassRef{ID: "c2", Name: "Data Structures"},
			StudentSubmissions: []domain.StudentSubmission{
				{StudentID: "s1", Submitted: true},
			},
		},
		{
			ID: "a3", Title: "Essay", Description: "Write about ALGOrithmic fairness",
			DueDate: domain.NewTimestamp(testNow.Add(-day)),
			Class:   domain.ClassRef{ID: "c1", Name: "CS101"},
		},
		{
			ID: "a4", Title: "Graphs", Description: "BFS and DFS",
			DueDate: domain.NewTimestamp(testNow.Add(2 * day)),
			Class:   domain.ClassRef{ID: "c3", Name: "Algo Club"},
		},
	}
}

func ids(list []domain.Assignment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterText(t *testing.T) {
	got, err := Filter(sampleAssignments(), domain.FilterQuery{Text: "algo", Status: "all", Class: "all"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a3", "a4"}, ids(got))
}

func TestFilterAllReturnsInput(t *testing.T) {
	input := sampleAssignments()
	got, err := Filter(input, domain.FilterQuery{Status: "all", Class: "all"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestFilterStatusSubstring(t *testing.T) {
	tests := []struct {
		status string
		want   []string
	}{
		{"Due Soon", []string{"a2", "a4"}},
		{"due", []string{"a2", "a3", "a4"}},
		{"past", []string{"a3"}},
		{"UPCOMING", []string{"a1"}},
		{"submitted", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			got, err := Filter(sampleAssignments(), domain.FilterQuery{Status: tc.status, Class: "all"}, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterViewerSubmission(t *testing.T) {
	got, err := Filter(sampleAssignments(), domain.FilterQuery{Status: "submitted", ViewerID: "s1"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids(got))
}

func TestFilterClassAndText(t *testing.T) {
	got, err := Filter(sampleAssignments(), domain.FilterQuery{Text: "ALGO", Status: "all", Class: "c1"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a3"}, ids(got))
}

func TestFilterErrors(t *testing.T) {
	_, err := Filter(nil, domain.FilterQuery{}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	broken := []domain.Assignment{{ID: "x", Title: "No due date"}}
	_, err = Filter(broken, domain.FilterQuery{Status: "upcoming"}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	// The status predicate is skipped entirely for "all".
	got, err := Filter(broken, domain.FilterQuery{Status: "all"}, testNow)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	input := sampleAssignments()
	before := sampleAssignments()
	_, err := Filter(input, domain.FilterQuery{Text: "graph", Status: "due"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, before, input)
}
