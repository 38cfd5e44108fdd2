package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/services"
)

type hireRequestBody struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Company     string   `json:"company"`
	ProjectType string   `json:"projectType"`
	Budget      *float64 `json:"budget"`
	CreatedAt   string   `json:"createdAt"`
}

func validHireRequest() map[string]any {
	return map[string]any{
		"name":               "Sam",
		"email":              "sam@example.com",
		"projectType":        "web",
		"projectDescription": "A storefront",
		"budget":             1500,
		"timeframe":          "Q3",
	}
}

func TestCreateHireRequest(t *testing.T) {
	t.Run("stores the request", func(t *testing.T) {
		api := setupTestAPI(t)

		rec := api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", validHireRequest()))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decode[hireRequestBody](t, rec)
		assert.NotEmpty(t, resp.ID)
		assert.NotEmpty(t, resp.CreatedAt)
		require.NotNil(t, resp.Budget)
		assert.Equal(t, 1500.0, *resp.Budget)
		assert.Empty(t, resp.Company)
	})

	t.Run("budget as numeric string", func(t *testing.T) {
		api := setupTestAPI(t)
		body := validHireRequest()
		body["budget"] = "250.5"

		rec := api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", body))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, 250.5, *decode[hireRequestBody](t, rec).Budget)
	})

	t.Run("rejects a non-numeric budget", func(t *testing.T) {
		api := setupTestAPI(t)
		body := validHireRequest()
		body["budget"] = "a lot"

		rec := api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"budget"}, decode[errorBody](t, rec).fields())
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		api := setupTestAPI(t)
		body := validHireRequest()
		body["email"] = "not-an-email"

		rec := api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"email"}, decode[errorBody](t, rec).fields())
	})
}

func TestCreateHireRequestNotifies(t *testing.T) {
	var (
		mu       sync.Mutex
		subjects []string
	)
	resend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req services.ResendEmailRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		subjects = append(subjects, req.Subject)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer resend.Close()

	mailer := services.NewMailer("key", "site@example.com").WithEndpoint(resend.URL)
	notifier := services.NewHireNotifier(mailer, []string{"owner@example.com"})
	api := setupTestAPI(t, withHireNotifier(notifier))

	rec := api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", validHireRequest()))
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(subjects) == 1
	}, 2*time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "New hire request from Sam", subjects[0])
}

func TestListHireRequestsNewestFirst(t *testing.T) {
	api := setupTestAPI(t)
	first := validHireRequest()
	first["name"] = "First"
	second := validHireRequest()
	second["name"] = "Second"

	require.Equal(t, http.StatusCreated, api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", first)).Code)
	time.Sleep(2 * time.Millisecond)
	require.Equal(t, http.StatusCreated, api.do(jsonRequest(t, http.MethodPost, "/api/hire-me", second)).Code)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/hire-me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]hireRequestBody](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
	assert.Equal(t, "First", list[1].Name)
}
