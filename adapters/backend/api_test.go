package backend_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/dashboard/adapters/backend"
	"github.com/bloodlink/dashboard/core"
)

type recordedCall struct {
	method string
	uri    string
	auth   string
	body   string
}

func newAPIServer(t *testing.T, status int, response string) (*httptest.Server, *recordedCall) {
	t.Helper()

	call := &recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		*call = recordedCall{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			auth:   r.Header.Get("Authorization"),
			body:   string(raw),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, call
}

func TestClient_PatientRequests(t *testing.T) {
	srv, call := newAPIServer(t, http.StatusOK, `[{"id":1,"blood_group":"O+","units_required":2,"request_type":"immediate","status":"pending","created_at":"2024-05-01T10:00:00"}]`)

	got, err := backend.NewClient(srv.URL).PatientRequests(t.Context(), "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/patient/requests", call.uri)
	assert.Equal(t, "Bearer tok", call.auth)
	assert.Equal(t, []core.PatientRequest{{
		ID:            1,
		BloodGroup:    "O+",
		UnitsRequired: 2,
		RequestType:   core.RequestImmediate,
		Status:        core.StatusPending,
		CreatedAt:     "2024-05-01T10:00:00",
	}}, got)
}

func TestClient_CreateRequest(t *testing.T) {
	tests := []struct {
		name string
		req  core.NewBloodRequest
		want string
	}{
		{
			name: "Immediate",
			req: core.NewBloodRequest{
				BloodGroup:    "A-",
				UnitsRequired: 3,
				RequestType:   core.RequestImmediate,
				Latitude:      decimal.RequireFromString("12.971599"),
				Longitude:     decimal.RequireFromString("77.594566"),
			},
			want: `{"blood_group":"A-","units_required":3,"request_type":"immediate","latitude":12.971599,"longitude":77.594566}`,
		},
		{
			name: "Scheduled",
			req: core.NewBloodRequest{
				BloodGroup:    "B+",
				UnitsRequired: 1,
				RequestType:   core.RequestScheduled,
				ScheduledDate: "2024-06-01",
			},
			want: `{"blood_group":"B+","units_required":1,"request_type":"scheduled","scheduled_date":"2024-06-01","latitude":0,"longitude":0}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, call := newAPIServer(t, http.StatusOK, `{"message":"Request created"}`)

			err := backend.NewClient(srv.URL).CreateRequest(t.Context(), "tok", tt.req)
			require.NoError(t, err)

			assert.Equal(t, http.MethodPost, call.method)
			assert.Equal(t, "/requests/create", call.uri)
			assert.JSONEq(t, tt.want, call.body)
		})
	}
}

func TestClient_Hospital(t *testing.T) {
	srv, call := newAPIServer(t, http.StatusOK, `[{"id":9,"patient_name":"Asha","blood_group":"AB+","units_required":4,"status":"pending","created_at":"2024-05-02"}]`)
	client := backend.NewClient(srv.URL)

	got, err := client.HospitalRequests(t.Context(), "tok")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha", got[0].PatientName)

	require.NoError(t, client.UpdateRequestStatus(t.Context(), "tok", 9, core.StatusApproved))
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/hospital/requests/9?status=approved", call.uri)
}

func TestClient_Inventory(t *testing.T) {
	srv, call := newAPIServer(t, http.StatusOK, `[{"id":3,"blood_group":"O-","units_available":12}]`)
	client := backend.NewClient(srv.URL)

	got, err := client.Inventory(t.Context(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []core.InventoryItem{{ID: 3, BloodGroup: "O-", UnitsAvailable: 12}}, got)

	require.NoError(t, client.UpsertInventory(t.Context(), "tok", core.InventoryUpdate{BloodGroup: "O-", UnitsAvailable: 15}))
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/bloodbank/inventory", call.uri)

	var sent core.InventoryUpdate
	require.NoError(t, json.Unmarshal([]byte(call.body), &sent))
	assert.Equal(t, core.InventoryUpdate{BloodGroup: "O-", UnitsAvailable: 15}, sent)

	require.NoError(t, client.DeleteInventory(t.Context(), "tok", 3))
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/bloodbank/inventory/3", call.uri)
}

func TestClient_AdminStats(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusOK, `{"total_patients":10,"total_hospitals":2,"total_bloodbanks":3,"total_requests":7,"pending_requests":4,"approved_requests":3}`)

	got, err := backend.NewClient(srv.URL).AdminStats(t.Context(), "tok")
	require.NoError(t, err)
	assert.Equal(t, core.AdminStats{
		TotalPatients:    10,
		TotalHospitals:   2,
		TotalBloodBanks:  3,
		TotalRequests:    7,
		PendingRequests:  4,
		ApprovedRequests: 3,
	}, got)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusForbidden, `{"detail":"Access denied"}`)

	_, err := backend.NewClient(srv.URL).AdminStats(t.Context(), "tok")

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Access denied", apiErr.Detail)
	assert.Contains(t, err.Error(), "Access denied")
}
