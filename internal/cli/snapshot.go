package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/validation"
)

// readSnapshot decodes and validates a snapshot JSON document.
func readSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if err := validation.New().Snapshot(snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snapshot, nil
}
