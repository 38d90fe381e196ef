package http

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
	"github.com/bloodlink/dashboard/service"
)

// Coordinates used when a request form leaves them blank
var (
	DefaultLatitude  = decimal.RequireFromString("12.9716")
	DefaultLongitude = decimal.RequireFromString("77.5946")
)

// Dependencies groups what the handlers need
type Dependencies struct {
	Auth           *service.AuthService
	Sessions       *service.SessionStore
	Browser        *service.BrowserBinding
	Cookie         CookieSettings
	Dispatcher     *service.Dispatcher
	API            ports.BloodLinkAPI
	Inspector      ports.TokenInspector
	GoogleClientID string
}

// Handlers contains the HTTP handlers of the dashboard
type Handlers struct {
	auth           *service.AuthService
	sessions       *service.SessionStore
	browser        *service.BrowserBinding
	cookie         CookieSettings
	dispatcher     *service.Dispatcher
	api            ports.BloodLinkAPI
	inspector      ports.TokenInspector
	googleClientID string
	templates      *template.Template
}

// NewHandlers creates new handlers and parses the page templates
func NewHandlers(deps Dependencies) (*Handlers, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if deps.Cookie.Name == "" {
		deps.Cookie.Name = DefaultCookieName
	}

	return &Handlers{
		auth:           deps.Auth,
		sessions:       deps.Sessions,
		browser:        deps.Browser,
		cookie:         deps.Cookie,
		dispatcher:     deps.Dispatcher,
		api:            deps.API,
		inspector:      deps.Inspector,
		googleClientID: deps.GoogleClientID,
		templates:      tmpl,
	}, nil
}

// Landing renders the public landing page
func (h *Handlers) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing", landingPage{})
}

// Healthz reports liveness
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LoginPage renders the login surface
func (h *Handlers) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", "")
}

func (h *Handlers) renderLogin(c *gin.Context, status int, selected, message string) {
	if selected == "" {
		selected = core.RolePatient.String()
	}
	c.HTML(status, "login", loginPage{
		Title:          "Login",
		Roles:          core.DeclarableRoles(),
		Selected:       selected,
		Error:          message,
		GoogleClientID: h.googleClientID,
	})
}

// Login handles the login request
func (h *Handlers) Login(c *gin.Context) {
	var form struct {
		Credential string `form:"credential"`
		Role       string `form:"role"`
		Error      string `form:"error"`
	}
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "", service.MsgLoginFailed)
		return
	}

	ctx := c.Request.Context()
	_, err := h.auth.Exchange(ctx, core.Credential(form.Credential), form.Role, form.Error)
	if err != nil {
		status, message := exchangeFailureResponse(err)
		h.renderLogin(c, status, form.Role, message)
		return
	}

	binding, err := h.browser.Issue(ctx)
	if err != nil {
		// The new session must not stay reachable through the previous browser's cookie
		slogctx.Error(ctx, "Failed to bind the session to the browser", "error", err)
		if err := h.auth.Logout(ctx); err != nil {
			slogctx.Error(ctx, "Failed to drop the unbound session", "error", err)
		}
		h.renderLogin(c, http.StatusInternalServerError, form.Role, service.MsgSessionNotSaved)
		return
	}

	http.SetCookie(c.Writer, h.cookie.issue(binding))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// exchangeFailureResponse maps an exchange failure to a status and a message for the user
func exchangeFailureResponse(err error) (int, string) {
	var exErr *core.ExchangeError
	if !errors.As(err, &exErr) {
		return http.StatusInternalServerError, service.MsgLoginFailed
	}

	switch exErr.Kind {
	case core.FailureProvider:
		return http.StatusBadRequest, exErr.Message
	case core.FailureRejected:
		return http.StatusUnauthorized, exErr.Message
	case core.FailureBusy:
		return http.StatusConflict, exErr.Message
	case core.FailureMalformed, core.FailureUnreachable:
		return http.StatusBadGateway, exErr.Message
	default:
		return http.StatusInternalServerError, exErr.Message
	}
}

// Logout handles the logout request.
// Only the browser holding the session may end it; any other caller just loses its cookie.
func (h *Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if boundBrowser(c, h.browser, h.cookie.Name) {
		if err := h.auth.Logout(ctx); err != nil {
			slogctx.Error(ctx, "Logout did not remove the persisted session", "error", err)
		} else if err := h.browser.Revoke(ctx); err != nil {
			slogctx.Warn(ctx, "Failed to revoke the browser binding", "error", err)
		}
	}

	http.SetCookie(c.Writer, h.cookie.expire())
	c.Redirect(http.StatusSeeOther, "/")
}

// Dashboard renders the layout and the view of the current role.
// A role without a view gets the layout alone.
func (h *Handlers) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	session := h.sessions.Current()

	page := dashboardPage{
		Title:  "Dashboard",
		Role:   session.Role,
		Icon:   h.dispatcher.Icon(session.Role),
		Notice: c.Query("notice"),
		Error:  c.Query("error"),
	}

	if h.inspector != nil {
		if claims, err := h.inspector.Inspect(session.Token); err == nil {
			page.Claims = &claims
		}
	}

	if view, ok := h.dispatcher.Dispatch(session.Role); ok {
		html, err := h.renderView(ctx, view, session)
		if err != nil {
			slogctx.Error(ctx, "Failed to render view", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		page.Title = view.Title
		page.HasView = true
		page.View = html
	}

	c.HTML(http.StatusOK, "dashboard", page)
}

// CreateRequest files a blood request for the patient
func (h *Handlers) CreateRequest(c *gin.Context) {
	var form struct {
		BloodGroup    string `form:"blood_group"`
		UnitsRequired int    `form:"units_required"`
		RequestType   string `form:"request_type"`
		ScheduledDate string `form:"scheduled_date"`
		Latitude      string `form:"latitude"`
		Longitude     string `form:"longitude"`
	}
	if err := c.ShouldBind(&form); err != nil {
		redirectDashboard(c, "", "Invalid request form")
		return
	}

	latitude, err := coordinate(form.Latitude, DefaultLatitude)
	if err != nil {
		redirectDashboard(c, "", "Invalid latitude")
		return
	}
	longitude, err := coordinate(form.Longitude, DefaultLongitude)
	if err != nil {
		redirectDashboard(c, "", "Invalid longitude")
		return
	}

	requestType := core.RequestType(form.RequestType)
	if requestType == "" {
		requestType = core.RequestImmediate
	}

	err = h.api.CreateRequest(c.Request.Context(), h.sessions.CurrentToken(), core.NewBloodRequest{
		BloodGroup:    form.BloodGroup,
		UnitsRequired: form.UnitsRequired,
		RequestType:   requestType,
		ScheduledDate: form.ScheduledDate,
		Latitude:      latitude,
		Longitude:     longitude,
	})
	h.afterAction(c, err, "Request created successfully")
}

// UpdateRequestStatus approves or rejects a request on behalf of the hospital
func (h *Handlers) UpdateRequestStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectDashboard(c, "", "Invalid request id")
		return
	}

	status := core.RequestStatus(c.PostForm("status"))
	err = h.api.UpdateRequestStatus(c.Request.Context(), h.sessions.CurrentToken(), id, status)
	h.afterAction(c, err, "Request "+string(status))
}

// UpsertInventory sets the stock of one blood group
func (h *Handlers) UpsertInventory(c *gin.Context) {
	var form struct {
		BloodGroup     string `form:"blood_group"`
		UnitsAvailable int    `form:"units_available"`
	}
	if err := c.ShouldBind(&form); err != nil {
		redirectDashboard(c, "", "Invalid inventory form")
		return
	}

	err := h.api.UpsertInventory(c.Request.Context(), h.sessions.CurrentToken(), core.InventoryUpdate{
		BloodGroup:     form.BloodGroup,
		UnitsAvailable: form.UnitsAvailable,
	})
	h.afterAction(c, err, "Inventory updated")
}

// DeleteInventory removes one stock line
func (h *Handlers) DeleteInventory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectDashboard(c, "", "Invalid inventory id")
		return
	}

	err = h.api.DeleteInventory(c.Request.Context(), h.sessions.CurrentToken(), id)
	h.afterAction(c, err, "Inventory item deleted")
}

func (h *Handlers) afterAction(c *gin.Context, err error, notice string) {
	if err != nil {
		slogctx.Warn(c.Request.Context(), "Dashboard action failed", "path", c.FullPath(), "error", err)
		redirectDashboard(c, "", err.Error())
		return
	}
	redirectDashboard(c, notice, "")
}

func redirectDashboard(c *gin.Context, notice, message string) {
	query := url.Values{}
	if notice != "" {
		query.Set("notice", notice)
	}
	if message != "" {
		query.Set("error", message)
	}

	target := "/dashboard"
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

func coordinate(value string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if value == "" {
		return fallback, nil
	}
	return decimal.NewFromString(value)
}
