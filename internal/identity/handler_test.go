package identity_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "placeholder",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSignupLoginAndAuthorizedRequest(t *testing.T) {
	router := newTestRouter(t)

	resp := postJSON(t, router, "/api/v1/auth/signup", map[string]string{
		"email":    "ada@example.com",
		"password": "longenough",
		"name":     "Ada",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", resp.Code, resp.Body.String())
	}

	var session struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if session.Token == "" {
		t.Fatal("signup returned no token")
	}
	if session.User.Email != "ada@example.com" || session.User.Name != "Ada" {
		t.Fatalf("user = %+v", session.User)
	}

	// The minted token must open protected routes.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, req)
	if respList.Code != http.StatusOK {
		t.Fatalf("authorized list status = %d", respList.Code)
	}

	// Login with the same credentials.
	respLogin := postJSON(t, router, "/api/v1/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "longenough",
	})
	if respLogin.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", respLogin.Code, respLogin.Body.String())
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	router := newTestRouter(t)

	if resp := postJSON(t, router, "/api/v1/auth/signup", map[string]string{
		"email":    "ada@example.com",
		"password": "longenough",
	}); resp.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", resp.Code)
	}

	resp := postJSON(t, router, "/api/v1/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "not-the-password",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]string{"email": "ada@example.com", "password": "longenough"}
	if resp := postJSON(t, router, "/api/v1/auth/signup", payload); resp.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", resp.Code)
	}
	resp := postJSON(t, router, "/api/v1/auth/signup", payload)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second signup status = %d, want 409", resp.Code)
	}
}

func TestSignupMissingFieldsRejected(t *testing.T) {
	router := newTestRouter(t)

	resp := postJSON(t, router, "/api/v1/auth/signup", map[string]string{"email": "ada@example.com"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
