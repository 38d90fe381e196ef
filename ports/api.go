package ports

import (
	"context"

	"github.com/bloodlink/dashboard/core"
)

// BloodLinkAPI is the subset of the BloodLink REST API the dashboards call.
// Every call is authorised with the session token.
type BloodLinkAPI interface {
	PatientRequests(ctx context.Context, token string) ([]core.PatientRequest, error)
	CreateRequest(ctx context.Context, token string, req core.NewBloodRequest) error

	HospitalRequests(ctx context.Context, token string) ([]core.HospitalRequest, error)
	UpdateRequestStatus(ctx context.Context, token string, requestID int64, status core.RequestStatus) error

	Inventory(ctx context.Context, token string) ([]core.InventoryItem, error)
	UpsertInventory(ctx context.Context, token string, item core.InventoryUpdate) error
	DeleteInventory(ctx context.Context, token string, itemID int64) error

	AdminStats(ctx context.Context, token string) (core.AdminStats, error)
}
