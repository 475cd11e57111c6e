package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"progress-dashboard/internal/config"
	"progress-dashboard/internal/infra/postgres"
)

// NewImportCmd loads a snapshot JSON file into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a snapshot JSON file and upsert it into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runImport(cmd.Context(), cfg, logger, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, logger *zap.Logger, file string) error {
	snapshot, err := readSnapshot(file)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	result, err := postgres.NewImporter(db).Import(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("import %s: %w", file, err)
	}
	logger.Info("snapshot imported",
		zap.String("file", file),
		zap.Int("classes", result.Classes),
		zap.Int("assignments", result.Assignments),
		zap.Int("activity", result.Activity),
	)
	return nil
}
