package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/artem13815/animelist/api/http/presenter"
	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/security/jwt"
	"github.com/artem13815/animelist/pkg/watchlist"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type loginResponse struct {
	UserID    int64             `json:"user_id"`
	Token     string            `json:"token"`
	Watchlist []watchlist.Anime `json:"watchlist"`
}

// Signup handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "registration payload"
// @Success 201 {object} presenter.MessageResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validate.Struct(req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, validationMessage(err))
	}

	_, err := h.useCase.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, auth.ErrInvalidInput):
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		default:
			zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("signup failed")
			return presenter.Error(c, http.StatusInternalServerError, "An error occurred during signup")
		}
	}
	return presenter.Message(c, http.StatusCreated, "User created successfully")
}

// Login verifies credentials and returns the user's id, a bearer token and
// the current watchlist.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "login payload"
// @Success 200 {object} loginResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validate.Struct(req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, validationMessage(err))
	}

	session, err := h.useCase.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "Invalid username or password")
		}
		zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("login failed")
		return presenter.Error(c, http.StatusInternalServerError, "An error occurred during login")
	}

	return presenter.JSON(c, http.StatusOK, loginResponse{
		UserID:    session.User.ID,
		Token:     session.Token,
		Watchlist: session.Watchlist,
	})
}

// Logout revokes the bearer token used for this request.
// @Summary  Logout
// @Tags     auth
// @Security BearerAuth
// @Success  204
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  500 {object} presenter.ErrorResponse
// @Router   /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals(jwt.LocalTokenID).(string)
	expiresAt, _ := c.Locals(jwt.LocalTokenExpiresAt).(time.Time)
	if err := h.useCase.Logout(c.UserContext(), tokenID, expiresAt); err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			return presenter.Error(c, http.StatusUnauthorized, "token cannot be revoked")
		}
		zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("logout failed")
		return presenter.Error(c, http.StatusInternalServerError, "An error occurred during logout")
	}
	return c.SendStatus(http.StatusNoContent)
}
