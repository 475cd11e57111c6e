package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progress-dashboard/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestSubmission(t *testing.T) {
	v := New()
	tests := []struct {
		name  string
		sub   domain.StudentSubmission
		valid bool
	}{
		{"pending without url", domain.StudentSubmission{StudentID: "s1"}, true},
		{"submitted with repo", domain.StudentSubmission{StudentID: "s1", Submitted: true, RepoURL: strPtr("https://github.com/octo/hello-world")}, true},
		{"submitted with trailing slash", domain.StudentSubmission{StudentID: "s1", Submitted: true, RepoURL: strPtr("https://github.com/octo/hello.go/")}, true},
		{"submitted without url", domain.StudentSubmission{StudentID: "s1", Submitted: true}, false},
		{"not github", domain.StudentSubmission{StudentID: "s1", Submitted: true, RepoURL: strPtr("https://gitlab.com/octo/repo")}, false},
		{"profile not repo", domain.StudentSubmission{StudentID: "s1", Submitted: true, RepoURL: strPtr("https://github.com/octo")}, false},
		{"missing student", domain.StudentSubmission{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Submission(tc.sub)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSnapshotReportsJSONPaths(t *testing.T) {
	v := New()
	due := domain.NewTimestamp(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	snapshot := domain.Snapshot{
		Assignments: []domain.Assignment{
			{
				ID: "a1", Title: "Sorting", DueDate: due,
				StudentSubmissions: []domain.StudentSubmission{
					{StudentID: "s1", Submitted: true, RepoURL: strPtr("not a url")},
				},
			},
		},
		Activity: []domain.StudentActivity{
			{StudentID: "s1", Repos: []domain.Repository{}, Profile: &domain.PracticeProfile{SubmissionRate: 140}},
		},
	}

	err := v.Snapshot(snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	rules := map[string]string{}
	for _, f := range verr.Fields {
		rules[f.Field] = f.Rule
	}
	assert.Equal(t, "github_repo", rules["assignments[0].studentRepos[0].repoUrl"])
	assert.Equal(t, "lte", rules["activity[0].completeProfile.submissionRate"])
}

func TestSnapshotRejectsDuplicateIDs(t *testing.T) {
	v := New()
	snapshot := domain.Snapshot{
		Assignments: []domain.Assignment{
			{ID: "a1", Title: "Sorting"},
			{ID: "a1", Title: "Duplicate"},
		},
	}

	var verr *Error
	require.ErrorAs(t, v.Snapshot(snapshot), &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, FieldError{Field: "assignments", Rule: "unique"}, verr.Fields[0])
}

func TestSnapshotValid(t *testing.T) {
	v := New()
	snapshot := domain.Snapshot{
		Classes: []domain.Class{{ID: "c1", Name: "CS101"}},
		Assignments: []domain.Assignment{
			{ID: "a1", Title: "Sorting", StudentSubmissions: []domain.StudentSubmission{{StudentID: "s1"}, {StudentID: "s2"}}},
		},
	}
	assert.NoError(t, v.Snapshot(snapshot))

	snapshot.Assignments[0].StudentSubmissions = append(snapshot.Assignments[0].StudentSubmissions, domain.StudentSubmission{StudentID: "s1"})
	assert.Error(t, v.Snapshot(snapshot))
}
