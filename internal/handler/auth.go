package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodshare-okc/foodshare/internal/apperr"
	"github.com/foodshare-okc/foodshare/internal/config"
	"github.com/foodshare-okc/foodshare/internal/model"
	"github.com/foodshare-okc/foodshare/internal/repository"
	"github.com/foodshare-okc/foodshare/internal/utils"
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	DisplayName string   `json:"display_name"`
	ZipCode     *string  `json:"zip_code"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Role        string   `json:"role"` // giver | receiver | driver
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	User        model.PublicUser `json:"user"`
	AccessToken string           `json:"access_token"`
	Expires     time.Time        `json:"expires"`
}

// Signup creates a user and returns the public fields plus an access
// token.  Email uniqueness is enforced by the store's unique index, not by
// a prior lookup, so concurrent signups with the same email cannot both
// succeed.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.Validation("invalid body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return respondError(c, apperr.Validation("email, password and display_name are required"))
	}
	if !strings.Contains(req.Email, "@") {
		return respondError(c, apperr.Validation("invalid email"))
	}

	p := repository.CreateUserParams{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		ZipCode:     req.ZipCode,
		Lat:         req.Lat,
		Lng:         req.Lng,
	}
	// Role flags are independent booleans; a single role string selects one
	// of them at signup.  Omitted or unrecognized roles fall back to
	// receiver so no account ends up with every flag false.
	switch strings.ToLower(strings.TrimSpace(req.Role)) {
	case "giver":
		p.IsGiver = true
	case "driver":
		p.IsDriver = true
	default:
		p.IsReceiver = true
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, p, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, apperr.Conflict("email already exists"))
		}
		return respondError(c, apperr.Internal("create user failed", err))
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, apperr.Internal("issue access failed", err))
	}

	return c.JSON(http.StatusCreated, authResp{
		User:        u.Public(),
		AccessToken: access.Token,
		Expires:     access.Exp,
	})
}

// Login verifies credentials and returns the user plus a fresh access
// token.  Unknown email and wrong password answer with the same error so
// the response does not reveal which one failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.Validation("invalid body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, apperr.Validation("email and password are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, apperr.Auth("invalid credentials"))
		}
		return respondError(c, apperr.Internal("query failed", err))
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, apperr.Auth("invalid credentials"))
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, apperr.Internal("issue access failed", err))
	}

	return c.JSON(http.StatusOK, authResp{
		User:        u.Public(),
		AccessToken: access.Token,
		Expires:     access.Exp,
	})
}
