// internal/debug/alerts.go
package debug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnhkchen/hack-stack/internal/common/cache"
	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/metrics"
	"github.com/johnhkchen/hack-stack/internal/models"

	"github.com/google/uuid"
)

const (
	ChannelSNS = "sns"
	ChannelSES = "ses"

	defaultCoolOff = 15 * time.Minute
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, textBody, htmlBody string) (string, error)
}

// TopicPublisher is satisfied by aws.SNSClient.
type TopicPublisher interface {
	Publish(ctx context.Context, subject, message string, attrs map[string]string) (string, error)
}

// Alerter sends a readiness alert when a report is not demo ready. Repeats
// within the cool-off window are suppressed through the shared cache store.
type Alerter struct {
	store      cache.Store
	coolOff    time.Duration
	publisher  TopicPublisher
	email      EmailSender
	recipients []string
	logger     logger.Logger
	now        func() time.Time
}

type AlerterOption func(*Alerter)

func WithTopicPublisher(p TopicPublisher) AlerterOption {
	return func(a *Alerter) { a.publisher = p }
}

func WithEmailSender(s EmailSender, recipients []string) AlerterOption {
	return func(a *Alerter) {
		a.email = s
		a.recipients = recipients
	}
}

func WithAlertClock(now func() time.Time) AlerterOption {
	return func(a *Alerter) { a.now = now }
}

func NewAlerter(store cache.Store, coolOff time.Duration, log logger.Logger, opts ...AlerterOption) *Alerter {
	if coolOff <= 0 {
		coolOff = defaultCoolOff
	}
	a := &Alerter{
		store:   store,
		coolOff: coolOff,
		logger:  log.WithFields(map[string]interface{}{"component": "alerts"}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Alerter) channels() []string {
	var out []string
	if a.publisher != nil {
		out = append(out, ChannelSNS)
	}
	if a.email != nil && len(a.recipients) > 0 {
		out = append(out, ChannelSES)
	}
	return out
}

// Notify alerts on a report that is not ready. It returns one notification
// per configured channel, or none when the report is ready.
func (a *Alerter) Notify(ctx context.Context, report *Report) ([]models.Notification, error) {
	if report == nil || report.DemoReady.Ready {
		return nil, nil
	}
	channels := a.channels()
	if len(channels) == 0 {
		return nil, nil
	}

	now := a.now().UTC()
	payload := map[string]interface{}{
		"score":          report.DemoReady.Score,
		"message":        report.DemoReady.Message,
		"overall_health": string(report.OverallHealth),
		"failed_checks":  failedChecks(report.DemoReady),
	}

	key := coolOffKey(report.Project.Name)
	fresh, err := a.store.SetNX(ctx, key, []byte(now.Format(time.RFC3339)), a.coolOff)
	claimed := err == nil && fresh
	if err != nil {
		a.logger.Warn("alert cool-off unavailable, sending anyway", map[string]interface{}{"error": err.Error()})
		fresh = true
	}

	out := make([]models.Notification, 0, len(channels))
	if !fresh {
		for _, ch := range channels {
			metrics.AlertsSent.WithLabelValues(ch, models.NotificationStatusSuppressed).Inc()
			out = append(out, a.notification(report, ch, models.NotificationStatusSuppressed, payload, now))
		}
		return out, nil
	}

	subject := fmt.Sprintf("[%s] demo readiness %d%%", report.Project.Name, report.DemoReady.Score)
	body := alertBody(report)

	var errs []error
	for _, ch := range channels {
		var sendErr error
		switch ch {
		case ChannelSNS:
			_, sendErr = a.publisher.Publish(ctx, subject, body, map[string]string{
				"project": report.Project.Name,
				"score":   strconv.Itoa(report.DemoReady.Score),
			})
		case ChannelSES:
			_, sendErr = a.email.SendEmail(ctx, a.recipients, subject, body, "")
		}

		status := models.NotificationStatusSent
		if sendErr != nil {
			status = models.NotificationStatusFailed
			errs = append(errs, apperrors.NewNotificationSendFailedError(ch, sendErr))
			a.logger.Error("readiness alert failed", map[string]interface{}{
				"channel": ch,
				"error":   sendErr.Error(),
			})
		}
		metrics.AlertsSent.WithLabelValues(ch, status).Inc()

		n := a.notification(report, ch, status, payload, now)
		if sendErr == nil {
			n.SentAt = now.Format(time.RFC3339)
		}
		out = append(out, n)
	}

	// Nothing was delivered: release the marker so the next report retries.
	if claimed && len(errs) == len(channels) {
		if err := a.store.Delete(ctx, key); err != nil {
			a.logger.Warn("failed to clear alert cool-off", map[string]interface{}{"error": err.Error()})
		}
	}

	a.logger.Info("readiness alert processed", map[string]interface{}{
		"project":  report.Project.Name,
		"score":    report.DemoReady.Score,
		"channels": channels,
		"failures": len(errs),
	})
	return out, errors.Join(errs...)
}

func (a *Alerter) notification(report *Report, channel, status string, payload map[string]interface{}, now time.Time) models.Notification {
	return models.Notification{
		ID:        uuid.New().String(),
		Project:   report.Project.Name,
		Type:      models.NotificationTypeReadinessDegraded,
		Channel:   channel,
		Status:    status,
		Payload:   payload,
		CreatedAt: now.Format(time.RFC3339),
	}
}

func coolOffKey(project string) string {
	return "readiness_alert:" + strings.ToLower(strings.ReplaceAll(project, " ", "_"))
}

func failedChecks(r Readiness) []string {
	out := []string{}
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c.Name)
		}
	}
	return out
}

func alertBody(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is not demo ready.\n\n", report.Project.Name)
	fmt.Fprintf(&b, "Score: %d (threshold %d)\n", report.DemoReady.Score, ReadyThreshold)
	fmt.Fprintf(&b, "Overall health: %s\n", report.OverallHealth)
	fmt.Fprintf(&b, "Healthy services: %d/%d\n", report.Summary.HealthyServices, report.Summary.TotalServices)
	if failed := failedChecks(report.DemoReady); len(failed) > 0 {
		fmt.Fprintf(&b, "Failed checks: %s\n", strings.Join(failed, ", "))
	}
	return b.String()
}
