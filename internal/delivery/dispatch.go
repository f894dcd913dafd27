package delivery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/internal/nudge"
	"github.com/campus-ops/outreach-cli/internal/resilience"
)

// Dispatcher sends a batch of generated emails sequentially, skipping
// recipients without an address or outside their escalation window, and
// records each confirmed send in the nudge store.
type Dispatcher struct {
	sender Sender
	store  *nudge.Store
	clock  func() time.Time
}

// NewDispatcher creates a Dispatcher. Pass clock=nil to use time.Now.
func NewDispatcher(sender Sender, store *nudge.Store, clock func() time.Time) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{sender: sender, store: store, clock: clock}
}

// Deliver processes every email and returns a report covering each one.
// A failed send is reported per-recipient and does not block the rest.
// The nudge store is updated only after a confirmed successful send, so
// failed and skipped recipients keep their escalation state unchanged.
func (d *Dispatcher) Deliver(ctx context.Context, emails []model.Email) *model.DeliveryReport {
	report := &model.DeliveryReport{Total: len(emails)}

	for _, email := range emails {
		outcome := d.deliverOne(ctx, email)
		report.Outcomes = append(report.Outcomes, outcome)

		switch outcome.Status {
		case model.DeliveryStatusSent:
			report.Sent++
		case model.DeliveryStatusSkipped:
			report.Skipped++
		case model.DeliveryStatusFailed:
			report.Failed++
		}
	}

	zap.L().Info("delivery: batch complete",
		zap.Int("total", report.Total),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report
}

func (d *Dispatcher) deliverOne(ctx context.Context, email model.Email) model.DeliveryOutcome {
	if email.StudentEmail == "" {
		return model.DeliveryOutcome{
			Status: model.DeliveryStatusSkipped,
			Reason: "student has no email address",
		}
	}

	if !email.Nudge.Eligible {
		reason := fmt.Sprintf("cooldown not met (%d days since last nudge)", email.Nudge.DaysSinceLast)
		if email.Nudge.Level >= 3 {
			reason = "escalation ceiling reached"
		}
		return model.DeliveryOutcome{
			StudentEmail: email.StudentEmail,
			Status:       model.DeliveryStatusSkipped,
			Reason:       reason,
			NudgeLevel:   email.Nudge.Level,
		}
	}

	err := resilience.Do(ctx, resilience.SMTPRetryConfig(), func(ctx context.Context) error {
		return d.sender.Send(ctx, email.StudentEmail, email.Subject, email.BodyHTML)
	})
	if err != nil {
		zap.L().Warn("delivery: send failed",
			zap.String("email", email.StudentEmail),
			zap.Error(err),
		)
		return model.DeliveryOutcome{
			StudentEmail: email.StudentEmail,
			Status:       model.DeliveryStatusFailed,
			Reason:       err.Error(),
			NudgeLevel:   email.Nudge.Level,
		}
	}

	if err := d.store.Record(email.StudentEmail, email.StudentName, email.Nudge.Level, d.clock()); err != nil {
		// The mail went out; losing the record is worse than a noisy log
		// because the recipient could be re-nudged early.
		zap.L().Error("delivery: failed to record nudge after send",
			zap.String("email", email.StudentEmail),
			zap.Int("level", email.Nudge.Level),
			zap.Error(err),
		)
	}

	return model.DeliveryOutcome{
		StudentEmail: email.StudentEmail,
		Status:       model.DeliveryStatusSent,
		NudgeLevel:   email.Nudge.Level,
	}
}
