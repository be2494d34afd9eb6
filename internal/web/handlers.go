package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/foodshare-okc/foodshare/internal/logger"
	"github.com/foodshare-okc/foodshare/internal/model"
)

// Server is the server-rendered form frontend.  It holds no domain logic;
// every action is forwarded to the API through the client and the result is
// rendered back as HTML.
type Server struct {
	API *APIClient
}

func NewServer(api *APIClient) *Server {
	return &Server{API: api}
}

// Register mounts the page routes and installs the template renderer.
func (s *Server) Register(e *echo.Echo) {
	e.Renderer = newRenderer()

	e.GET("/", s.Index)
	e.GET("/signup", s.SignupForm)
	e.POST("/signup", s.Signup)
	e.GET("/login", s.LoginForm)
	e.POST("/login", s.Login)
	e.POST("/logout", s.Logout)
	e.GET("/share", s.ShareForm)
	e.POST("/share", s.Share)
	e.GET("/mine", s.Mine)
	e.GET("/profile", s.ProfileForm)
	e.POST("/profile", s.UpdateProfile)
	e.POST("/listings/:id/claim", s.Claim)
	e.POST("/listings/:id/complete", s.Complete)
}

// pageData is the envelope every template receives: nav state, an optional
// error banner and the page payload.
type pageData struct {
	Session  *Session
	Error    string
	Listings []model.ListingWithOwner
	User     model.PublicUser
}

func (s *Server) page(c echo.Context) pageData {
	var d pageData
	if sess, ok := currentSession(c); ok {
		d.Session = &sess
	}
	return d
}

func (s *Server) render(c echo.Context, code int, name string, d pageData) error {
	return c.Render(code, name, d)
}

// errorMessage folds any error into a banner string.  API validation and
// conflict messages pass through verbatim; everything else becomes a
// generic apology so upstream failures never leak into the page.
func errorMessage(c echo.Context, err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Status < 500 {
		return apiErr.Message
	}
	logger.FromEcho(c).Error("api call failed", zap.Error(err))
	return "something went wrong, please try again"
}

func (s *Server) Index(c echo.Context) error {
	d := s.page(c)
	listings, err := s.API.Feed(c.Request().Context())
	if err != nil {
		d.Error = errorMessage(c, err)
	}
	d.Listings = listings
	return s.render(c, http.StatusOK, "index", d)
}

func (s *Server) SignupForm(c echo.Context) error {
	return s.render(c, http.StatusOK, "signup", s.page(c))
}

func (s *Server) Signup(c echo.Context) error {
	p := SignupParams{
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		DisplayName: c.FormValue("display_name"),
		Role:        c.FormValue("role"),
	}
	if zip := c.FormValue("zip_code"); zip != "" {
		p.ZipCode = &zip
	}
	res, err := s.API.Signup(c.Request().Context(), p)
	if err != nil {
		d := s.page(c)
		d.Error = errorMessage(c, err)
		return s.render(c, http.StatusOK, "signup", d)
	}
	setSession(c, Session{UserID: res.User.ID, Name: res.User.DisplayName, Token: res.AccessToken})
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) LoginForm(c echo.Context) error {
	return s.render(c, http.StatusOK, "login", s.page(c))
}

func (s *Server) Login(c echo.Context) error {
	res, err := s.API.Login(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		d := s.page(c)
		d.Error = errorMessage(c, err)
		return s.render(c, http.StatusOK, "login", d)
	}
	setSession(c, Session{UserID: res.User.ID, Name: res.User.DisplayName, Token: res.AccessToken})
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) Logout(c echo.Context) error {
	clearSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) ShareForm(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return s.render(c, http.StatusOK, "share", d)
}

func (s *Server) Share(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	p := ListingParams{
		UserID:      d.Session.UserID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}
	if loc := c.FormValue("pickup_location"); loc != "" {
		p.PickupLocation = &loc
	}
	if _, err := s.API.CreateListing(c.Request().Context(), d.Session.Token, p); err != nil {
		d.Error = errorMessage(c, err)
		return s.render(c, http.StatusOK, "share", d)
	}
	return c.Redirect(http.StatusSeeOther, "/mine")
}

func (s *Server) Mine(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	listings, err := s.API.Mine(c.Request().Context(), d.Session.UserID)
	if err != nil {
		d.Error = errorMessage(c, err)
	}
	d.Listings = listings
	return s.render(c, http.StatusOK, "mine", d)
}

func (s *Server) ProfileForm(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	user, err := s.API.Profile(c.Request().Context(), d.Session.UserID)
	if err != nil {
		d.Error = errorMessage(c, err)
	}
	d.User = user
	return s.render(c, http.StatusOK, "profile", d)
}

func (s *Server) UpdateProfile(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	patch := map[string]any{
		"display_name":      c.FormValue("display_name"),
		"zip_code":          c.FormValue("zip_code"),
		"pickup_notes":      c.FormValue("pickup_notes"),
		"notification_pref": c.FormValue("notification_pref"),
		"no_contact":        c.FormValue("no_contact") == "1",
	}
	user, err := s.API.UpdateProfile(c.Request().Context(), d.Session.Token, d.Session.UserID, patch)
	if err != nil {
		d.Error = errorMessage(c, err)
		d.User, _ = s.API.Profile(c.Request().Context(), d.Session.UserID)
		return s.render(c, http.StatusOK, "profile", d)
	}
	if user.DisplayName != d.Session.Name {
		setSession(c, Session{UserID: d.Session.UserID, Name: user.DisplayName, Token: d.Session.Token})
	}
	d.User = user
	return s.render(c, http.StatusOK, "profile", d)
}

func (s *Server) Claim(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if _, err := s.API.Claim(c.Request().Context(), d.Session.Token, id, d.Session.UserID); err != nil {
		d.Error = errorMessage(c, err)
		d.Listings, _ = s.API.Feed(c.Request().Context())
		return s.render(c, http.StatusOK, "index", d)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) Complete(c echo.Context) error {
	d := s.page(c)
	if d.Session == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/mine")
	}
	if _, err := s.API.Complete(c.Request().Context(), d.Session.Token, id); err != nil {
		d.Error = errorMessage(c, err)
		d.Listings, _ = s.API.Mine(c.Request().Context(), d.Session.UserID)
		return s.render(c, http.StatusOK, "mine", d)
	}
	return c.Redirect(http.StatusSeeOther, "/mine")
}
