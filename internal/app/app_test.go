package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard_backend/internal/app"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedGateway struct{}

func (fixedGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	return &payment.Session{Status: payment.StatusSuccess, GatewayURL: "https://gateway.test/" + req.TranID}, nil
}

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	client *http.Client
}

func NewTestServer(t *testing.T, publicRead bool) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Jobs.PublicRead = publicRead
	cfg.Payment.FrontendURL = "http://app.test"
	cfg.Payment.BackendURL = "http://api.test"

	store, err := storage.NewStorage(storage.Config{Type: "local", BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	db := testutil.NewDB(t)
	container := services.NewServiceContainer(services.Dependencies{
		Storage:       store,
		EmailProvider: email.NewProvider(&email.SMTPConfig{}),
		Gateway:       fixedGateway{},
		Payment: services.PaymentConfig{
			BackendURL:  cfg.Payment.BackendURL,
			FrontendURL: cfg.Payment.FrontendURL,
		},
	})

	server := httptest.NewServer(app.SetupRouter(cfg, db, container))
	t.Cleanup(server.Close)

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	return &TestServer{Server: server, DB: db, client: client}
}

func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}

// RegisterUser signs up through the API and returns the token and user id.
func (ts *TestServer) RegisterUser(t *testing.T, email, role string) (string, uint) {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":        email,
		"password":     "password123",
		"first_name":   "Test",
		"last_name":    "User",
		"address":      "Dhaka",
		"phone_number": "01700000000",
		"role":         role,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID     uint     `json:"id"`
			Groups []string `json:"groups"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User.ID
}

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out
}

func errorCode(t *testing.T, body string) string {
	t.Helper()
	envelope := decode(t, body)
	errObj, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, body)
	code, _ := errObj["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	ts := NewTestServer(t, true)
	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "ok")
}

func TestAuthEndpoints(t *testing.T) {
	ts := NewTestServer(t, true)

	token, _ := ts.RegisterUser(t, "seeker@test.com", "seeker")

	t.Run("duplicate register", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
			"email": "seeker@test.com", "password": "password123", "first_name": "A", "last_name": "B",
			"address": "C", "phone_number": "1", "role": "seeker",
		})
		assert.Equal(t, http.StatusConflict, res.StatusCode, body)
	})

	t.Run("register rejects admin role", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
			"email": "boss@test.com", "password": "password123", "first_name": "A", "last_name": "B",
			"address": "C", "phone_number": "1", "role": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))
	})

	t.Run("login", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "seeker@test.com", "password": "password123",
		})
		assert.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Contains(t, body, "access_token")

		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "seeker@test.com", "password": "nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
	})

	t.Run("me", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		me := decode(t, body)
		assert.Equal(t, "seeker", me["role"])
		assert.Equal(t, []interface{}{"Job Seeker"}, me["groups"])

		res, body = ts.SendRequest(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"bio": "hello", "role": "admin"})
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		me = decode(t, body)
		assert.Equal(t, "hello", me["bio"])
		assert.Equal(t, "seeker", me["role"])
	})

	t.Run("admin routes need the admin role", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", token, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode, body)
	})
}

func TestHiringFlow(t *testing.T) {
	ts := NewTestServer(t, true)

	employerToken, employerID := ts.RegisterUser(t, "employer@test.com", "employer")
	seekerToken, _ := ts.RegisterUser(t, "seeker@test.com", "seeker")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", seekerToken, map[string]interface{}{
		"title": "Go Engineer", "description": "Build APIs",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", employerToken, map[string]interface{}{
		"title": "Go Engineer", "description": "Build APIs", "company_name": "Acme", "salary": 1200,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	job := decode(t, body)
	jobID := uint(job["id"].(float64))
	assert.Equal(t, float64(employerID), job["employer"])

	t.Run("anonymous browsing", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?search=engineer&ordering=-title", "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, float64(1), decode(t, body)["total"])

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?ordering=salary", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", jobID), "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, float64(1), decode(t, body)["views_count"])

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/featured", "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, float64(0), decode(t, body)["total"])

		res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	var appID uint
	t.Run("apply", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/applications", jobID), seekerToken,
			map[string]string{"portfolio_link": "https://example.com/me"})
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
		created := decode(t, body)
		assert.Equal(t, "pending", created["status"])
		appID = uint(created["id"].(float64))

		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/applications", seekerToken,
			map[string]interface{}{"job_id": jobID})
		assert.Equal(t, http.StatusConflict, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/has-applied", jobID), seekerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, true, decode(t, body)["has_applied"])
	})

	t.Run("employer reviews the application", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/applications", jobID), employerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, float64(1), decode(t, body)["total"])

		statusURL := fmt.Sprintf("/api/v1/applications/%d/status", appID)
		res, body = ts.SendRequest(t, http.MethodPatch, statusURL, employerToken, map[string]string{"status": "offered"})
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPatch, statusURL, employerToken, map[string]string{"status": "reviewed"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
		assert.Equal(t, "INVALID_TRANSITION", errorCode(t, body))

		res, body = ts.SendRequest(t, http.MethodPatch, statusURL, employerToken, map[string]string{"status": "hired"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPatch, statusURL, employerToken, map[string]string{"status": "accepted"})
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	})

	t.Run("seeker reviews the employer", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/can-review", jobID), seekerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, true, decode(t, body)["can_review"])

		reviewsURL := fmt.Sprintf("/api/v1/jobs/%d/reviews", jobID)
		res, body = ts.SendRequest(t, http.MethodPost, reviewsURL, employerToken, map[string]interface{}{"rating": 5})
		assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPost, reviewsURL, seekerToken, map[string]interface{}{"rating": 9})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPost, reviewsURL, seekerToken, map[string]interface{}{"rating": 5, "comment": "Fair process"})
		require.Equal(t, http.StatusCreated, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, reviewsURL, seekerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Equal(t, float64(1), decode(t, body)["total"])
	})

	t.Run("withdrawing an accepted application fails", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/withdraw", appID), seekerToken, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	})

	t.Run("dashboards", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/dashboard", employerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		board := decode(t, body)
		assert.Equal(t, float64(1), board["jobs_posted"])
		assert.Equal(t, float64(1), board["total_applications"])

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/dashboard/stats?days=30", seekerToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		stats := decode(t, body)
		assert.Equal(t, float64(30), stats["days"])
		assert.Equal(t, float64(1), stats["applications_created"])

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/dashboard/stats?days=0", seekerToken, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	})
}

func TestFeaturePaymentFlow(t *testing.T) {
	ts := NewTestServer(t, true)

	employerToken, _ := ts.RegisterUser(t, "employer@test.com", "employer")
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", employerToken, map[string]interface{}{
		"title": "Promote me", "description": "Please",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	jobID := uint(decode(t, body)["id"].(float64))

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/feature-payment", jobID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/feature-payment", jobID), employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	initiated := decode(t, body)
	tranID := initiated["tran_id"].(string)
	assert.Equal(t, fmt.Sprintf("JOB_%d_FEATURE", jobID), tranID)
	assert.Equal(t, "https://gateway.test/"+tranID, initiated["payment_url"])

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/payment/success", "", map[string]string{"tran_id": tranID})
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("http://app.test/dashboard/jobs/%d/?payment_status=success", jobID), res.Header.Get("Location"))

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/featured", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, float64(1), decode(t, body)["total"])

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/feature-payment", jobID), employerToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/payment/cancel", "", nil)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "http://app.test/dashboard/jobs/?payment_status=canceled", res.Header.Get("Location"))
}

func TestPrivateReadMode(t *testing.T) {
	ts := NewTestServer(t, false)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	token, _ := ts.RegisterUser(t, "seeker@test.com", "seeker")
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}
