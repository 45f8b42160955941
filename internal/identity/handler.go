package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	sharedauth "resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/telemetry"
)

const sessionTTL = 24 * time.Hour

// Handler exposes password signup and login, minting session tokens from
// verified identities.
type Handler struct {
	Client Client
}

// NewHandler constructs a Handler.
func NewHandler(client Client) *Handler {
	return &Handler{Client: client}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/login", h.logIn)
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	id, err := h.Client.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "email_taken", "email already registered", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadGateway, "auth_failed", "signup failed", nil)
		}
		return
	}

	telemetry.Info("auth.signup", map[string]any{"owner": id.Email})
	h.issueSession(c, id, http.StatusCreated)
}

func (h *Handler) logIn(c *gin.Context) {
	var req credentialsBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	id, err := h.Client.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "auth_failed", "login failed", nil)
		return
	}

	telemetry.Info("auth.login", map[string]any{"owner": id.Email})
	h.issueSession(c, id, http.StatusOK)
}

func (h *Handler) issueSession(c *gin.Context, id Identity, status int) {
	now := time.Now().UTC()
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:   id.Email,
		Email: id.Email,
		Name:  id.Name,
		Iat:   now.Unix(),
		Exp:   now.Add(sessionTTL).Unix(),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, status, sessionResponse{
		Token: token,
		User:  userResponse{Email: id.Email, Name: id.Name},
	})
}
