package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

// HireNotifier emails the site owner when a hire request arrives.
type HireNotifier struct {
	mailer     *Mailer
	recipients []string
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
}

// NewHireNotifier returns nil when there is no mailer or no recipient.
func NewHireNotifier(mailer *Mailer, recipients []string) *HireNotifier {
	if mailer == nil || len(recipients) == 0 {
		return nil
	}
	return &HireNotifier{
		mailer:     mailer,
		recipients: recipients,
		timeout:    30 * time.Second,
		attempts:   3,
		retryDelay: 2 * time.Second,
	}
}

// Notify sends the notification in the background. Failures are only logged.
func (n *HireNotifier) Notify(request models.HireRequest) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		err := n.deliver(ctx, request)
		switch {
		case err == nil:
		case errs.IsConfigError(err), errs.IsInvalidAPIKeyError(err):
			log.Error().Err(err).Str("hireRequestId", request.ID).Msg("Hire request notification not sent, check RESEND_API_KEY and RESEND_FROM_EMAIL")
		default:
			log.Error().Err(err).Str("hireRequestId", request.ID).Msg("Failed to send hire request notification")
		}
	}()
}

// deliver calls Send, retrying failures that are likely to clear up.
func (n *HireNotifier) deliver(ctx context.Context, request models.HireRequest) error {
	var err error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		if err = n.Send(ctx, request); err == nil || !transient(err) {
			return err
		}
		if attempt == n.attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Hire request notification failed, retrying")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(n.retryDelay * time.Duration(attempt)):
		}
	}
	return err
}

func transient(err error) bool {
	return errs.IsRateLimitError(err) || errs.IsServiceUnavailableError(err) || errs.IsServiceUnreachableError(err)
}

// Send delivers the notification synchronously.
func (n *HireNotifier) Send(ctx context.Context, request models.HireRequest) error {
	subject := fmt.Sprintf("New hire request from %s", request.Name)
	return n.mailer.SendEmail(ctx, subject, renderHireRequest(request), n.recipients)
}

// Fields are already HTML-escaped by validation.
func renderHireRequest(r models.HireRequest) string {
	var b strings.Builder
	b.WriteString("<h2>New hire request</h2><ul>")
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, value)
		}
	}
	row("Name", r.Name)
	row("Email", r.Email)
	row("Company", r.Company)
	row("Project type", r.ProjectType)
	if r.Budget != nil {
		row("Budget", strconv.FormatFloat(*r.Budget, 'f', -1, 64))
	}
	row("Timeframe", r.Timeframe)
	b.WriteString("</ul><p>")
	b.WriteString(r.ProjectDescription)
	b.WriteString("</p>")
	return b.String()
}
