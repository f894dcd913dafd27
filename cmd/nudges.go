package main

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campus-ops/outreach-cli/internal/nudge"
)

var nudgesEmail string

// nudgeStatus is the inspection view of one recipient's escalation state.
type nudgeStatus struct {
	Email         string `json:"email"`
	StudentName   string `json:"student_name"`
	CurrentLevel  int    `json:"current_level"`
	LastSentAt    string `json:"last_sent_at"`
	NextLevel     int    `json:"next_level"`
	DaysSinceLast int    `json:"days_since_last"`
	Eligible      bool   `json:"eligible"`
	Sends         int    `json:"sends"`
}

var nudgesCmd = &cobra.Command{
	Use:   "nudges",
	Short: "Inspect the nudge escalation history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := nudge.NewStore(cfg.Nudge.StorePath)
		policy := nudge.Policy{
			CooldownDays: cfg.Nudge.CooldownDays,
			MaxLevel:     cfg.Nudge.MaxLevel,
		}

		records, err := store.All()
		if err != nil {
			return eris.Wrap(err, "load nudge history")
		}

		now := time.Now()
		var statuses []nudgeStatus
		for email, rec := range records {
			if nudgesEmail != "" && email != nudgesEmail {
				continue
			}
			elig := policy.NextLevel(&rec, now)
			statuses = append(statuses, nudgeStatus{
				Email:         email,
				StudentName:   rec.StudentName,
				CurrentLevel:  rec.CurrentLevel,
				LastSentAt:    rec.LastSentAt.Format(time.RFC3339),
				NextLevel:     elig.Level,
				DaysSinceLast: elig.DaysSinceLast,
				Eligible:      elig.Eligible,
				Sends:         len(rec.History),
			})
		}

		out, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal nudge statuses")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	nudgesCmd.Flags().StringVar(&nudgesEmail, "email", "", "limit output to one recipient")
	rootCmd.AddCommand(nudgesCmd)
}
