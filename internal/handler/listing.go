package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/foodshare-okc/foodshare/internal/apperr"
	"github.com/foodshare-okc/foodshare/internal/logger"
	"github.com/foodshare-okc/foodshare/internal/model"
	"github.com/foodshare-okc/foodshare/internal/queue"
	"github.com/foodshare-okc/foodshare/internal/repository"
)

// ClaimPublisher publishes a claim event to the message broker.  The
// handler treats publishing as fire-and-forget: a broker outage must never
// fail the claim itself.
type ClaimPublisher interface {
	PublishListingClaimed(ctx context.Context, ev queue.ListingClaimedEvent) error
}

// ListingHandler groups the repositories needed for listing CRUD and the
// two lifecycle transitions.  Publisher may be nil, in which case no broker
// events are emitted.
type ListingHandler struct {
	Listings  *repository.ListingRepo
	Events    *repository.EventRepo
	Publisher ClaimPublisher
}

func NewListingHandler(l *repository.ListingRepo, e *repository.EventRepo, pub ClaimPublisher) *ListingHandler {
	return &ListingHandler{Listings: l, Events: e, Publisher: pub}
}

type createListingReq struct {
	UserID         uint64   `json:"user_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PickupLocation *string  `json:"pickup_location"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
}

type claimReq struct {
	ReceiverID uint64 `json:"receiver_id"`
}

// Create handles POST /api/listings.
func (h *ListingHandler) Create(c echo.Context) error {
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.Validation("invalid body"))
	}
	if req.UserID == 0 || req.Title == "" || req.Description == "" {
		return respondError(c, apperr.Validation("user_id, title, and description are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.Create(ctx, repository.CreateListingParams{
		UserID:         req.UserID,
		Title:          req.Title,
		Description:    req.Description,
		PickupLocation: req.PickupLocation,
		Lat:            req.Lat,
		Lng:            req.Lng,
	})
	if err != nil {
		return respondError(c, apperr.Internal("create listing failed", err))
	}
	return c.JSON(http.StatusCreated, echo.Map{"listing": l})
}

// Feed handles GET /api/listings: up to 20 available listings joined with
// the owner's display name and zip code, newest first.
func (h *ListingHandler) Feed(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listings, err := h.Listings.ListAvailable(ctx)
	if err != nil {
		return respondError(c, apperr.Internal("query failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

// Mine handles GET /api/listings/my/:userId: every listing the user owns,
// regardless of status.
func (h *ListingHandler) Mine(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		return respondError(c, apperr.Validation("invalid user id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listings, err := h.Listings.ListByOwner(ctx, userID)
	if err != nil {
		return respondError(c, apperr.Internal("query failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

// Get handles GET /api/listings/:id.
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, apperr.Validation("invalid listing id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return respondError(c, apperr.NotFound("listing not found"))
		}
		return respondError(c, apperr.Internal("query failed", err))
	}
	return c.JSON(http.StatusOK, echo.Map{"listing": l})
}

// Claim handles PATCH /api/listings/:id/claim.  The transition is a single
// conditional UPDATE, so with concurrent claimers exactly one request wins;
// the rest land here in the not-found branch.  On success a claim event is
// appended (actor = receiver, recipient = owner) and a broker notification
// is published best-effort.
func (h *ListingHandler) Claim(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, apperr.Validation("invalid listing id"))
	}
	var req claimReq
	if err := c.Bind(&req); err != nil || req.ReceiverID == 0 {
		return respondError(c, apperr.Validation("receiver_id is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Listings.Claim(ctx, id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return respondError(c, apperr.NotFound("listing not found or already claimed"))
		}
		return respondError(c, apperr.Internal("claim failed", err))
	}

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, apperr.Internal("load listing failed", err))
	}

	ev, err := h.Events.Append(ctx, model.ListingEvent{
		ListingID:   l.ID,
		ActorID:     req.ReceiverID,
		RecipientID: l.UserID,
		EventType:   model.EventClaimRequested,
	})
	if err != nil {
		return respondError(c, apperr.Internal("record claim failed", err))
	}

	if h.Publisher != nil {
		pubEv := queue.ListingClaimedEvent{
			ListingID:  l.ID,
			Title:      l.Title,
			OwnerID:    l.UserID,
			OwnerName:  l.DisplayName,
			ReceiverID: req.ReceiverID,
			ClaimedAt:  ev.CreatedAt.UTC().Format(time.RFC3339),
		}
		if pubErr := h.Publisher.PublishListingClaimed(ctx, pubEv); pubErr != nil {
			logger.FromEcho(c).Warn("publish claim event failed",
				zap.Uint64("listing_id", l.ID), zap.Error(pubErr))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"listing": l, "event": ev})
}

// Complete handles PATCH /api/listings/:id/complete.  Same conditional
// UPDATE shape as Claim, from claimed to completed.
func (h *ListingHandler) Complete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return respondError(c, apperr.Validation("invalid listing id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Listings.Complete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return respondError(c, apperr.NotFound("listing not found or not claimed"))
		}
		return respondError(c, apperr.Internal("complete failed", err))
	}

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, apperr.Internal("load listing failed", err))
	}

	// Address the completion event to whichever receiver claimed the
	// listing, recovered from the claim history.
	var receiverID uint64
	if history, histErr := h.Events.ListByListing(ctx, id); histErr == nil {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].EventType == model.EventClaimRequested {
				receiverID = history[i].ActorID
				break
			}
		}
	}

	ev, err := h.Events.Append(ctx, model.ListingEvent{
		ListingID:   l.ID,
		ActorID:     l.UserID,
		RecipientID: receiverID,
		EventType:   model.EventCompleted,
	})
	if err != nil {
		return respondError(c, apperr.Internal("record completion failed", err))
	}

	return c.JSON(http.StatusOK, echo.Map{"listing": l, "event": ev})
}
