package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
)

const defaultResendURL = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends email through the Resend API.
type Mailer struct {
	apiKey    string
	fromEmail string
	endpoint  string
	client    *http.Client
}

// NewMailer returns nil when apiKey or fromEmail is empty; a nil Mailer sends nothing.
func NewMailer(apiKey, fromEmail string) *Mailer {
	if apiKey == "" || fromEmail == "" {
		return nil
	}
	return &Mailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		endpoint:  defaultResendURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoint points the mailer at a different Resend compatible URL.
func (m *Mailer) WithEndpoint(endpoint string) *Mailer {
	m.endpoint = endpoint
	return m
}

// SendEmail sends an HTML email to recipients.
func (m *Mailer) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if m == nil {
		return errs.NewConfigError("RESEND_API_KEY", nil)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewServiceUnreachableError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewUpstreamError("resend", resp.StatusCode, errorResp.Message)
		}
		return errs.NewUpstreamError("resend", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
