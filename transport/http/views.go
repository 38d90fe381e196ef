package http

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/service"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// BloodGroups offered by the request and inventory forms
var BloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

type landingPage struct {
	Title string
}

type loginPage struct {
	Title          string
	Roles          []core.Role
	Selected       string
	Error          string
	GoogleClientID string
}

type dashboardPage struct {
	Title   string
	Role    core.Role
	Icon    string
	Claims  *core.TokenClaims
	HasView bool
	View    template.HTML
	Notice  string
	Error   string
}

// viewData feeds the role partials. Only the part matching the role is loaded.
type viewData struct {
	Error            string
	BloodGroups      []string
	PatientRequests  []core.PatientRequest
	HospitalRequests []core.HospitalRequest
	Inventory        []core.InventoryItem
	Stats            core.AdminStats
}

// loadViewData fetches what the role's view shows. API failures end up in Error.
func (h *Handlers) loadViewData(ctx context.Context, role core.Role, token string) viewData {
	data := viewData{BloodGroups: BloodGroups}

	var err error
	switch role {
	case core.RolePatient:
		data.PatientRequests, err = h.api.PatientRequests(ctx, token)
	case core.RoleHospital:
		data.HospitalRequests, err = h.api.HospitalRequests(ctx, token)
	case core.RoleBloodBank:
		data.Inventory, err = h.api.Inventory(ctx, token)
	case core.RoleAdmin:
		data.Stats, err = h.api.AdminStats(ctx, token)
	}
	if err != nil {
		slogctx.Warn(ctx, "Failed to load dashboard data", "role", role, "error", err)
		data.Error = err.Error()
	}

	return data
}

// renderView executes the view partial into HTML for the dashboard layout
func (h *Handlers) renderView(ctx context.Context, view service.View, session core.Session) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, view.Template, h.loadViewData(ctx, session.Role, session.Token)); err != nil {
		return "", fmt.Errorf("rendering %s view: %w", view.Name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template
}
