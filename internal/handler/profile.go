package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodshare-okc/foodshare/internal/apperr"
	"github.com/foodshare-okc/foodshare/internal/repository"
)

// ProfileHandler serves a user's public profile and preference fields.
type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(u *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Users: u}
}

// updateProfileReq uses pointer fields throughout: a profile update is a
// partial merge, and only fields present in the request body are written.
type updateProfileReq struct {
	DisplayName      *string  `json:"display_name"`
	ZipCode          *string  `json:"zip_code"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	IsGiver          *bool    `json:"is_giver"`
	IsReceiver       *bool    `json:"is_receiver"`
	IsDriver         *bool    `json:"is_driver"`
	NoContact        *bool    `json:"no_contact"`
	PickupNotes      *string  `json:"pickup_notes"`
	NotificationPref *string  `json:"notification_pref"`
}

// Get handles GET /api/profile/:id.
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, apperr.Validation("invalid user id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, apperr.NotFound("user not found"))
		}
		return respondError(c, apperr.Internal("query failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}

// Update handles PUT /api/profile/:id.  Fields omitted from the body keep
// their stored values.
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, apperr.Validation("invalid user id"))
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.Validation("invalid body"))
	}
	if req.DisplayName != nil && *req.DisplayName == "" {
		return respondError(c, apperr.Validation("display_name cannot be empty"))
	}
	if req.NotificationPref != nil {
		switch *req.NotificationPref {
		case "all", "claims", "none":
		default:
			return respondError(c, apperr.Validation("invalid notification_pref"))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, id, repository.UpdateProfileParams{
		DisplayName:      req.DisplayName,
		ZipCode:          req.ZipCode,
		Lat:              req.Lat,
		Lng:              req.Lng,
		IsGiver:          req.IsGiver,
		IsReceiver:       req.IsReceiver,
		IsDriver:         req.IsDriver,
		NoContact:        req.NoContact,
		PickupNotes:      req.PickupNotes,
		NotificationPref: req.NotificationPref,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, apperr.NotFound("user not found"))
		}
		return respondError(c, apperr.Internal("update profile failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}
