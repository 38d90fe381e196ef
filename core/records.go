package core

import "github.com/shopspring/decimal"

// RequestStatus is the lifecycle state of a patient blood request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// RequestType distinguishes urgent requests from planned ones
type RequestType string

const (
	RequestImmediate RequestType = "immediate"
	RequestScheduled RequestType = "scheduled"
)

// PatientRequest is a request as seen by the patient who filed it
type PatientRequest struct {
	ID            int64         `json:"id"`
	BloodGroup    string        `json:"blood_group"`
	UnitsRequired int           `json:"units_required"`
	RequestType   RequestType   `json:"request_type"`
	Status        RequestStatus `json:"status"`
	CreatedAt     string        `json:"created_at"`
}

// HospitalRequest is a request as seen by a hospital reviewing it
type HospitalRequest struct {
	ID            int64         `json:"id"`
	PatientName   string        `json:"patient_name"`
	BloodGroup    string        `json:"blood_group"`
	UnitsRequired int           `json:"units_required"`
	Status        RequestStatus `json:"status"`
	CreatedAt     string        `json:"created_at"`
}

// NewBloodRequest is filed by a patient
type NewBloodRequest struct {
	BloodGroup    string
	UnitsRequired int
	RequestType   RequestType
	ScheduledDate string
	Latitude      decimal.Decimal
	Longitude     decimal.Decimal
}

// InventoryItem is one blood group stock line of a blood bank
type InventoryItem struct {
	ID             int64  `json:"id"`
	BloodGroup     string `json:"blood_group"`
	UnitsAvailable int    `json:"units_available"`
}

// InventoryUpdate sets the stock of one blood group
type InventoryUpdate struct {
	BloodGroup     string `json:"blood_group"`
	UnitsAvailable int    `json:"units_available"`
}

// AdminStats are the platform-wide counters shown to admins
type AdminStats struct {
	TotalPatients    int `json:"total_patients"`
	TotalHospitals   int `json:"total_hospitals"`
	TotalBloodBanks  int `json:"total_bloodbanks"`
	TotalRequests    int `json:"total_requests"`
	PendingRequests  int `json:"pending_requests"`
	ApprovedRequests int `json:"approved_requests"`
}
