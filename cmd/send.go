package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-ops/outreach-cli/internal/delivery"
	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/internal/nudge"
)

var (
	sendInputPath string
	sendDryRun    bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Deliver generated reminder emails and record nudges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(sendInputPath)
		if err != nil {
			return eris.Wrap(err, "read run state")
		}
		var state model.RunState
		if err := json.Unmarshal(data, &state); err != nil {
			return eris.Wrap(err, "parse run state")
		}

		if sendDryRun {
			for _, email := range state.Emails {
				zap.L().Info("dry run: would send",
					zap.String("to", email.StudentEmail),
					zap.String("subject", email.Subject),
					zap.Int("nudge_level", email.Nudge.Level),
					zap.Bool("eligible", email.Nudge.Eligible),
				)
			}
			return nil
		}

		if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
			return eris.New("SMTP credentials are required (OUTREACH_SMTP_USERNAME, OUTREACH_SMTP_PASSWORD)")
		}

		store := nudge.NewStore(cfg.Nudge.StorePath)
		sender := delivery.NewSMTPSender(cfg.SMTP, cfg.Outreach)
		dispatcher := delivery.NewDispatcher(sender, store, nil)

		report := dispatcher.Deliver(ctx, state.Emails)

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal delivery report")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendInputPath, "input", "", "path to run state JSON produced by `outreach run --out` (required)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "log what would be sent without delivering")
	_ = sendCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(sendCmd)
}
