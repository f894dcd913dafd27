package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-ops/outreach-cli/internal/nudge"
	"github.com/campus-ops/outreach-cli/internal/pipeline"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

var (
	runRosterPath string
	runOutputPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a roster and generate reminder emails",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (OUTREACH_ANTHROPIC_KEY)")
		}
		if _, err := os.Stat(runRosterPath); err != nil {
			return eris.Wrap(err, "roster file")
		}

		aiClient := anthropic.NewClient(cfg.Anthropic.Key)
		store := nudge.NewStore(cfg.Nudge.StorePath)

		p := pipeline.New(cfg, aiClient, store)
		state, err := p.Run(ctx, runRosterPath)
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		if runOutputPath != "" {
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal run state")
			}
			if err := os.WriteFile(runOutputPath, data, 0o644); err != nil {
				return eris.Wrap(err, "write run state")
			}
		}

		zap.L().Info("run complete",
			zap.String("run_id", state.RunID),
			zap.Int("total_students", state.Summary.TotalStudents),
			zap.Int("incomplete_students", state.Summary.IncompleteStudents),
			zap.Int("emails_generated", state.Summary.EmailsGenerated),
			zap.String("output", runOutputPath),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runRosterPath, "xlsx", "", "path to roster XLSX file (required)")
	runCmd.Flags().StringVar(&runOutputPath, "out", "", "write run state JSON to this path for the send step")
	_ = runCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(runCmd)
}
