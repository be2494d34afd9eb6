package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const sessionCookie = "fs_session"

// Session is the transient UI state of a signed-in visitor: who they are
// and the access token to attach to API calls.  It lives in a cookie and
// nowhere else; server-side the client keeps no state.
type Session struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func setSession(c echo.Context, s Session) {
	bs, _ := json.Marshal(s)
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    base64.RawURLEncoding.EncodeToString(bs),
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(12 * time.Hour),
	})
}

func clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:    sessionCookie,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

// currentSession decodes the session cookie.  A missing or mangled cookie
// simply means the visitor is signed out.
func currentSession(c echo.Context) (Session, bool) {
	ck, err := c.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return Session{}, false
	}
	bs, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(bs, &s); err != nil || s.UserID == 0 {
		return Session{}, false
	}
	return s, true
}
