package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foodshare-okc/foodshare/internal/model"
)

// APIClient is the thin HTTP client the form frontend uses to talk to the
// API server.  It holds no state beyond the base URL; auth travels as a
// Bearer token per call.
type APIClient struct {
	Base string
	HTTP *http.Client
}

func NewAPIClient(base string) *APIClient {
	return &APIClient{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError carries the status and message of a non-2xx API response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// AuthResult is the response of signup and login.
type AuthResult struct {
	User        model.PublicUser `json:"user"`
	AccessToken string           `json:"access_token"`
}

type listingResp struct {
	Listing model.ListingWithOwner `json:"listing"`
}

type listingsResp struct {
	Listings []model.ListingWithOwner `json:"listings"`
}

type userResp struct {
	User model.PublicUser `json:"user"`
}

// SignupParams mirrors the signup request body.
type SignupParams struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	ZipCode     *string `json:"zip_code,omitempty"`
	Role        string  `json:"role,omitempty"`
}

// ListingParams mirrors the create-listing request body.
type ListingParams struct {
	UserID         uint64  `json:"user_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	PickupLocation *string `json:"pickup_location,omitempty"`
}

func (a *APIClient) Signup(ctx context.Context, p SignupParams) (AuthResult, error) {
	var out AuthResult
	err := a.do(ctx, http.MethodPost, "/api/signup", "", p, &out)
	return out, err
}

func (a *APIClient) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := a.do(ctx, http.MethodPost, "/api/login", "", body, &out)
	return out, err
}

func (a *APIClient) Feed(ctx context.Context) ([]model.ListingWithOwner, error) {
	var out listingsResp
	err := a.do(ctx, http.MethodGet, "/api/listings", "", nil, &out)
	return out.Listings, err
}

func (a *APIClient) Mine(ctx context.Context, userID uint64) ([]model.ListingWithOwner, error) {
	var out listingsResp
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/listings/my/%d", userID), "", nil, &out)
	return out.Listings, err
}

func (a *APIClient) GetListing(ctx context.Context, id uint64) (model.ListingWithOwner, error) {
	var out listingResp
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/listings/%d", id), "", nil, &out)
	return out.Listing, err
}

func (a *APIClient) CreateListing(ctx context.Context, token string, p ListingParams) (model.ListingWithOwner, error) {
	var out listingResp
	err := a.do(ctx, http.MethodPost, "/api/listings", token, p, &out)
	return out.Listing, err
}

func (a *APIClient) Claim(ctx context.Context, token string, listingID, receiverID uint64) (model.ListingWithOwner, error) {
	var out listingResp
	body := map[string]uint64{"receiver_id": receiverID}
	err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/api/listings/%d/claim", listingID), token, body, &out)
	return out.Listing, err
}

func (a *APIClient) Complete(ctx context.Context, token string, listingID uint64) (model.ListingWithOwner, error) {
	var out listingResp
	err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/api/listings/%d/complete", listingID), token, nil, &out)
	return out.Listing, err
}

func (a *APIClient) Profile(ctx context.Context, userID uint64) (model.PublicUser, error) {
	var out userResp
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/profile/%d", userID), "", nil, &out)
	return out.User, err
}

// UpdateProfile sends only the fields present in patch; the API merges them
// over the stored profile.
func (a *APIClient) UpdateProfile(ctx context.Context, token string, userID uint64, patch map[string]any) (model.PublicUser, error) {
	var out userResp
	err := a.do(ctx, http.MethodPut, fmt.Sprintf("/api/profile/%d", userID), token, patch, &out)
	return out.User, err
}

func (a *APIClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
