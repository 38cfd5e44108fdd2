package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

type resendStub struct {
	mu       sync.Mutex
	requests []ResendEmailRequest
	auth     string
	status   int
	done     chan struct{}
}

func newResendStub(t *testing.T, status int) (*resendStub, *httptest.Server) {
	stub := &resendStub{status: status, done: make(chan struct{}, 8)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ResendEmailRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		stub.mu.Lock()
		stub.requests = append(stub.requests, req)
		stub.auth = r.Header.Get("Authorization")
		stub.mu.Unlock()

		w.WriteHeader(stub.status)
		if stub.status == http.StatusOK {
			_, _ = w.Write([]byte(`{"id":"email_123"}`))
		} else {
			_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
		}
		stub.done <- struct{}{}
	}))
	t.Cleanup(srv.Close)
	return stub, srv
}

func TestNewMailerRequiresConfig(t *testing.T) {
	assert.Nil(t, NewMailer("", "me@example.com"))
	assert.Nil(t, NewMailer("key", ""))
	assert.Error(t, (*Mailer)(nil).SendEmail(context.Background(), "s", "b", []string{"a@example.com"}))
}

func TestSendEmail(t *testing.T) {
	stub, srv := newResendStub(t, http.StatusOK)
	m := NewMailer("re_key", "Site <site@example.com>").WithEndpoint(srv.URL)

	require.NoError(t, m.SendEmail(context.Background(), "Hello", "<p>Hi</p>", []string{"me@example.com"}))

	require.Len(t, stub.requests, 1)
	assert.Equal(t, "Bearer re_key", stub.auth)
	assert.Equal(t, "Site <site@example.com>", stub.requests[0].From)
	assert.Equal(t, []string{"me@example.com"}, stub.requests[0].To)
	assert.Equal(t, "<p>Hi</p>", stub.requests[0].Html)

	assert.Error(t, m.SendEmail(context.Background(), "Hello", "body", nil))
}

func TestSendEmailError(t *testing.T) {
	_, srv := newResendStub(t, http.StatusUnprocessableEntity)
	m := NewMailer("re_key", "site@example.com").WithEndpoint(srv.URL)

	err := m.SendEmail(context.Background(), "Hello", "body", []string{"me@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
	assert.ErrorIs(t, err, errs.ErrUpstreamRejected)
}

func TestSendEmailUpstreamFailures(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{status: http.StatusTooManyRequests, check: errs.IsRateLimitError},
		{status: http.StatusUnauthorized, check: errs.IsInvalidAPIKeyError},
		{status: http.StatusBadGateway, check: errs.IsServiceUnavailableError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			_, srv := newResendStub(t, tt.status)
			m := NewMailer("re_key", "site@example.com").WithEndpoint(srv.URL)

			err := m.SendEmail(context.Background(), "Hello", "body", []string{"me@example.com"})
			assert.True(t, tt.check(err), "%v", err)
		})
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	var m *Mailer
	assert.True(t, errs.IsConfigError(m.SendEmail(context.Background(), "s", "b", []string{"a@example.com"})))
}

func TestHireNotifier(t *testing.T) {
	assert.Nil(t, NewHireNotifier(nil, []string{"me@example.com"}))
	assert.Nil(t, NewHireNotifier(NewMailer("k", "f@example.com"), nil))
	(*HireNotifier)(nil).Notify(models.HireRequest{})

	stub, srv := newResendStub(t, http.StatusOK)
	n := NewHireNotifier(NewMailer("k", "site@example.com").WithEndpoint(srv.URL), []string{"me@example.com"})

	budget := 1500.0
	n.Notify(models.HireRequest{
		ID:                 "abc",
		Name:               "Bob",
		Email:              "bob@example.com",
		ProjectType:        "web",
		ProjectDescription: "An online shop",
		Budget:             &budget,
	})

	select {
	case <-stub.done:
	case <-time.After(5 * time.Second):
		t.Fatal("notification was not sent")
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.requests, 1)
	assert.Equal(t, "New hire request from Bob", stub.requests[0].Subject)
	assert.Contains(t, stub.requests[0].Html, "<strong>Budget:</strong> 1500")
	assert.Contains(t, stub.requests[0].Html, "An online shop")
	assert.NotContains(t, stub.requests[0].Html, "Company")
}

// sequencedResend answers with statuses in order, repeating the last one.
func sequencedResend(t *testing.T, statuses ...int) (*atomic.Int32, *httptest.Server) {
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1)) - 1
		status := statuses[min(n, len(statuses)-1)]

		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"id":"email_123"}`))
		} else {
			_, _ = w.Write([]byte(`{"message":"try later"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return calls, srv
}

func TestHireNotifierDeliverRetries(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		calls    int
		check    func(error) bool
	}{
		{name: "recovers after unavailable", statuses: []int{http.StatusServiceUnavailable, http.StatusOK}, calls: 2},
		{name: "recovers after rate limit", statuses: []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK}, calls: 3},
		{name: "gives up after three attempts", statuses: []int{http.StatusBadGateway}, calls: 3, check: errs.IsServiceUnavailableError},
		{name: "does not retry a bad key", statuses: []int{http.StatusUnauthorized}, calls: 1, check: errs.IsInvalidAPIKeyError},
		{name: "does not retry a rejected message", statuses: []int{http.StatusUnprocessableEntity}, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, srv := sequencedResend(t, tt.statuses...)
			n := NewHireNotifier(NewMailer("k", "site@example.com").WithEndpoint(srv.URL), []string{"me@example.com"})
			n.retryDelay = time.Millisecond

			err := n.deliver(context.Background(), models.HireRequest{Name: "Bob"})

			if tt.check == nil && tt.statuses[len(tt.statuses)-1] == http.StatusOK {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				if tt.check != nil {
					assert.True(t, tt.check(err), "%v", err)
				}
			}
			assert.Equal(t, int32(tt.calls), calls.Load())
		})
	}
}
