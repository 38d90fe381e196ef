package service

import "github.com/bloodlink/dashboard/core"

// FallbackIcon is shown when the role has no view
const FallbackIcon = "🔐"

// View describes the dashboard rendered for a role
type View struct {
	Name     string
	Title    string
	Icon     string
	Template string
}

var (
	PatientView = View{
		Name:     "patient",
		Title:    "Patient Dashboard",
		Icon:     "👤",
		Template: "view_patient",
	}
	HospitalView = View{
		Name:     "hospital",
		Title:    "Hospital Dashboard",
		Icon:     "🏥",
		Template: "view_hospital",
	}
	BloodBankView = View{
		Name:     "bloodbank",
		Title:    "Blood Bank Dashboard",
		Icon:     "🩸",
		Template: "view_bloodbank",
	}
	AdminView = View{
		Name:     "admin",
		Title:    "Admin Analytics Dashboard",
		Icon:     "👨‍💼",
		Template: "view_admin",
	}
)

// Dispatcher selects the view for a role
type Dispatcher struct {
	views map[core.Role]View
}

// NewDispatcher creates a dispatcher covering every role
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		views: map[core.Role]View{
			core.RolePatient:   PatientView,
			core.RoleHospital:  HospitalView,
			core.RoleBloodBank: BloodBankView,
			core.RoleAdmin:     AdminView,
		},
	}
}

// Dispatch returns the view for role. The empty role and unknown roles have no view.
func (d *Dispatcher) Dispatch(role core.Role) (View, bool) {
	view, ok := d.views[role]
	return view, ok
}

// Icon returns the layout icon for role
func (d *Dispatcher) Icon(role core.Role) string {
	if view, ok := d.views[role]; ok {
		return view.Icon
	}
	return FallbackIcon
}
