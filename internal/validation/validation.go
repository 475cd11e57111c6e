// Package validation checks imported snapshots before they reach storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"progress-dashboard/internal/domain"
)

const githubRepoTag = "github_repo"

var githubRepoRegex = regexp.MustCompile(`^https?://(www\.)?github\.com/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+/?$`)

// FieldError is a single failed constraint, named by its JSON path.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Error aggregates every failed constraint of one document.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Rule)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match validation failures as invalid input.
func (e *Error) Unwrap() error {
	return domain.ErrInvalidInput
}

// Validator wraps a configured validator.Validate; it is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(submissionValidation, domain.StudentSubmission{})

	return &Validator{validate: validate}
}

// Snapshot validates a whole import document.
func (v *Validator) Snapshot(s domain.Snapshot) error {
	return v.check(s)
}

// Submission validates a single student submission.
func (v *Validator) Submission(sub domain.StudentSubmission) error {
	return v.check(sub)
}

func (v *Validator) check(target any) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe.Namespace()), Rule: fe.Tag()})
	}
	return out
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// submissionValidation requires a GitHub repository URL once work is submitted.
func submissionValidation(sl validator.StructLevel) {
	sub := sl.Current().Interface().(domain.StudentSubmission)
	if sub.RepoURL == nil {
		if sub.Submitted {
			sl.ReportError(sub.RepoURL, "repoUrl", "RepoURL", githubRepoTag, "")
		}
		return
	}
	if !IsGitHubRepoURL(*sub.RepoURL) {
		sl.ReportError(*sub.RepoURL, "repoUrl", "RepoURL", githubRepoTag, "")
	}
}

// IsGitHubRepoURL reports whether raw looks like https://github.com/<owner>/<repo>.
func IsGitHubRepoURL(raw string) bool {
	return githubRepoRegex.MatchString(strings.TrimSpace(raw))
}
