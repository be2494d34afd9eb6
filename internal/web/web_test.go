package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/foodshare-okc/foodshare/internal/model"
)

// stubAPI fakes the JSON API with canned responses keyed by method+path.
func stubAPI(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fn, ok := routes[r.Method+" "+r.URL.Path]; ok {
			fn(w, r)
			return
		}
		t.Errorf("unexpected API call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newWebServer(api string) *echo.Echo {
	e := echo.New()
	NewServer(NewAPIClient(api)).Register(e)
	return e
}

func TestIndexRendersFeed(t *testing.T) {
	loc := "back porch"
	api := stubAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/listings": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"listings": []model.ListingWithOwner{{
				Listing: model.Listing{
					ID: 1, UserID: 7, Title: "Half a lasagna", Description: "Vegetarian",
					PickupLocation: &loc, Status: model.StatusAvailable, CreatedAt: time.Now(),
				},
				DisplayName: "Alice",
			}}})
		},
	})
	e := newWebServer(api.URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Half a lasagna")
	require.Contains(t, body, "Alice")
	require.Contains(t, body, "back porch")
	require.Contains(t, body, "Log in", "signed-out nav")
	require.NotContains(t, body, "My Listings")
}

func TestSignupSetsSessionAndRedirects(t *testing.T) {
	api := stubAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/signup": func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["email"] != "alice@example.com" || req["role"] != "giver" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad stub input"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{
				"user":         model.PublicUser{ID: 7, Email: "alice@example.com", DisplayName: "Alice"},
				"access_token": "tok123",
			})
		},
	})
	e := newWebServer(api.URL)

	form := url.Values{}
	form.Set("email", "alice@example.com")
	form.Set("password", "hunter22")
	form.Set("display_name", "Alice")
	form.Set("role", "giver")
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var found bool
	for _, ck := range cookies {
		if ck.Name == sessionCookie {
			found = true
			require.True(t, ck.HttpOnly)
		}
	}
	require.True(t, found, "session cookie must be set")
}

func TestSignupErrorRendersBanner(t *testing.T) {
	api := stubAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/signup": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "email already exists"})
		},
	})
	e := newWebServer(api.URL)

	form := url.Values{}
	form.Set("email", "dupe@example.com")
	form.Set("password", "x")
	form.Set("display_name", "Dupe")
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "email already exists")
}

func TestShareRequiresSession(t *testing.T) {
	e := newWebServer("http://unused.invalid")

	for _, path := range []string{"/share", "/mine", "/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestClaimForwardsSessionUser(t *testing.T) {
	var gotAuth string
	var gotReceiver float64
	api := stubAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /api/listings/5/claim": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			var body map[string]float64
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotReceiver = body["receiver_id"]
			writeJSON(w, http.StatusOK, map[string]any{"listing": model.ListingWithOwner{
				Listing: model.Listing{ID: 5, Status: model.StatusClaimed},
			}})
		},
	})
	e := newWebServer(api.URL)

	req := httptest.NewRequest(http.MethodPost, "/listings/5/claim", nil)
	attachSession(req, Session{UserID: 9, Name: "Recv", Token: "tok9"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "Bearer tok9", gotAuth)
	require.EqualValues(t, 9, gotReceiver)
}

// attachSession adds a session cookie to an outbound test request using
// the same encoding setSession writes.
func attachSession(req *http.Request, s Session) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	setSession(c, s)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
}

func TestAPIClientErrorDecoding(t *testing.T) {
	api := stubAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/listings/9": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "listing not found"})
		},
	})
	client := NewAPIClient(api.URL)

	_, err := client.GetListing(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "listing not found", apiErr.Message)
}
