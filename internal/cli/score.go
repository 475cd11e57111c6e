package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/metrics"
)

type studentReport struct {
	StudentID string               `json:"studentId"`
	Score     domain.ActivityScore `json:"score"`
}

type scoreReport struct {
	GeneratedAt time.Time                  `json:"generatedAt"`
	AverageRate float64                    `json:"averageRate"`
	Assignments []domain.AssignmentSummary `json:"assignments"`
	Students    []studentReport            `json:"students"`
}

// NewScoreCmd scores a snapshot offline and prints the report as JSON.
func NewScoreCmd() *cobra.Command {
	var (
		file string
		at   string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute statuses, submission rates and activity scores for a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				now = domain.ParseTimestamp(at)
				if now.IsZero() {
					return fmt.Errorf("--at %q: %w", at, domain.ErrInvalidDate)
				}
			}
			snapshot, err := readSnapshot(file)
			if err != nil {
				return err
			}
			report, err := buildReport(snapshot, now)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON file")
	cmd.Flags().StringVar(&at, "at", "", "evaluate as of this time (RFC3339 or YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func buildReport(snapshot domain.Snapshot, now time.Time) (scoreReport, error) {
	assignments := snapshot.Assignments
	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	report := scoreReport{
		GeneratedAt: now,
		AverageRate: metrics.AverageRate(assignments),
		Assignments: make([]domain.AssignmentSummary, 0, len(assignments)),
		Students:    make([]studentReport, 0, len(snapshot.Activity)),
	}
	for _, a := range assignments {
		status, err := metrics.ClassifyDeadline(a.DueDate.Time, now)
		if err != nil {
			return scoreReport{}, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		report.Assignments = append(report.Assignments, domain.AssignmentSummary{
			Assignment:  a,
			Status:      status,
			StatusLabel: status.Label(),
			StatusStyle: status.Style(),
			Stats:       metrics.Aggregate(a.StudentSubmissions),
		})
	}
	for _, act := range snapshot.Activity {
		repos := act.Repos
		if repos == nil {
			repos = []domain.Repository{}
		}
		score, err := metrics.Score(repos, act.Profile, now)
		if err != nil {
			return scoreReport{}, fmt.Errorf("student %s: %w", act.StudentID, err)
		}
		report.Students = append(report.Students, studentReport{StudentID: act.StudentID, Score: score})
	}
	return report, nil
}

func writeReport(w io.Writer, report scoreReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
