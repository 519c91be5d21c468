package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestView struct {
	RequestID       string `json:"requestId"`
	EmployeeID      string `json:"employeeId"`
	Days            int    `json:"days"`
	LeaveType       string `json:"leaveType"`
	Status          string `json:"status"`
	ApprovedBy      string `json:"approvedBy"`
	RejectedBy      string `json:"rejectedBy"`
	RejectionReason string `json:"rejectionReason"`
}

type balanceView struct {
	Balance          int `json:"leaveBalance"`
	PendingDays      int `json:"pendingDays"`
	ApprovedRequests int `json:"approvedRequests"`
	RejectedRequests int `json:"rejectedRequests"`
	DaysUsed         int `json:"daysUsed"`
}

func TestLeaveRequestJourney(t *testing.T) {
	_, ts := newTestServer(t, testConfig())
	client := ts.Client()
	api := ts.URL + "/api/v1"

	reg := postJSON(t, client, api+"/employees", map[string]any{
		"employeeId": "EMP100",
		"name":       "Erin Park",
		"email":      "erin@company.com",
		"department": "Finance",
	}, http.StatusCreated)
	registered := decodeData[struct {
		InitialBalance int `json:"initialLeaveBalance"`
	}](t, reg)
	assert.Equal(t, 20, registered.InitialBalance)

	dup := postJSON(t, client, api+"/employees", map[string]any{"employeeId": "EMP100", "name": "Again"}, http.StatusConflict)
	assert.Equal(t, "already_exists", dup.Error.Code)

	created := postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP100",
		"startDate":  "2025-03-03",
		"endDate":    "2025-03-07",
		"reason":     "Family trip",
	}, http.StatusCreated)
	req := decodeData[requestView](t, created)
	assert.Equal(t, "REQ0004", req.RequestID)
	assert.Equal(t, 5, req.Days)
	assert.Equal(t, "Annual", req.LeaveType)
	assert.Equal(t, "Pending", req.Status)

	approved := doJSON(t, client, http.MethodPost, api+"/leave/requests/REQ0004/approve", "HR01", nil, http.StatusOK)
	assert.Equal(t, "HR01", decodeData[requestView](t, approved).ApprovedBy)

	again := doJSON(t, client, http.MethodPost, api+"/leave/requests/REQ0004/approve", "HR01", nil, http.StatusConflict)
	require.NotNil(t, again.Error)
	assert.Equal(t, "invalid_state", again.Error.Code)
	assert.JSONEq(t, `{"requestId":"REQ0004","currentStatus":"Approved"}`, string(again.Error.Details))

	balance := decodeData[balanceView](t, getJSON(t, client, api+"/leave/balances/EMP100", http.StatusOK))
	assert.Equal(t, 15, balance.Balance)
	assert.Equal(t, 5, balance.DaysUsed)
	assert.Equal(t, 1, balance.ApprovedRequests)

	tooLong := postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP100",
		"startDate":  "2025-04-01",
		"endDate":    "2025-04-16",
	}, http.StatusUnprocessableEntity)
	assert.Equal(t, "insufficient_balance", tooLong.Error.Code)
	assert.JSONEq(t, `{"available":15,"requested":16}`, string(tooLong.Error.Details))

	sick := decodeData[requestView](t, postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP100",
		"startDate":  "2025-05-01",
		"endDate":    "2025-05-30",
		"leaveType":  "sick",
	}, http.StatusCreated))
	assert.Equal(t, "Sick", sick.LeaveType)
	assert.Equal(t, 30, sick.Days)

	rejected := decodeData[requestView](t, postJSON(t, client, api+"/leave/requests/"+sick.RequestID+"/reject", map[string]any{
		"reason": "Needs a medical certificate",
	}, http.StatusOK))
	assert.Equal(t, "Rejected", rejected.Status)
	assert.Equal(t, "MANAGER", rejected.RejectedBy)
	assert.Equal(t, "Needs a medical certificate", rejected.RejectionReason)

	balance = decodeData[balanceView](t, getJSON(t, client, api+"/leave/balances/EMP100", http.StatusOK))
	assert.Equal(t, 15, balance.Balance)
	assert.Equal(t, 1, balance.RejectedRequests)

	events := getJSON(t, client, api+"/audit/events?action=leave.approve", http.StatusOK)
	audit := decodeData[[]struct {
		ActorID  string `json:"actorId"`
		EntityID string `json:"entityId"`
	}](t, events)
	require.Len(t, audit, 1)
	assert.Equal(t, "HR01", audit[0].ActorID)
	assert.Equal(t, "REQ0004", audit[0].EntityID)
}

func TestLeaveRequestValidation(t *testing.T) {
	_, ts := newTestServer(t, testConfig())
	client := ts.Client()
	api := ts.URL + "/api/v1"

	missing := postJSON(t, client, api+"/leave/requests", map[string]any{"employeeId": "EMP001"}, http.StatusBadRequest)
	assert.Equal(t, "invalid_input", missing.Error.Code)
	assert.Contains(t, string(missing.Error.Details), "startDate")

	reversed := postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP001",
		"startDate":  "2025-03-10",
		"endDate":    "2025-03-01",
	}, http.StatusBadRequest)
	assert.Equal(t, "invalid_input", reversed.Error.Code)

	badDate := postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP001",
		"startDate":  "03/10/2025",
		"endDate":    "2025-03-11",
	}, http.StatusBadRequest)
	assert.Equal(t, "invalid_input", badDate.Error.Code)

	unknown := postJSON(t, client, api+"/leave/requests", map[string]any{
		"employeeId": "EMP999",
		"startDate":  "2025-03-10",
		"endDate":    "2025-03-11",
	}, http.StatusNotFound)
	assert.Equal(t, "not_found", unknown.Error.Code)

	extra := postJSON(t, client, api+"/leave/requests", map[string]any{"employeeId": "EMP001", "days": 3}, http.StatusBadRequest)
	assert.False(t, extra.Success)

	getJSON(t, client, api+"/leave/requests?status=Bogus", http.StatusBadRequest)
	getJSON(t, client, api+"/leave/requests/REQ9999", http.StatusNotFound)

	zero := postJSON(t, client, api+"/leave/balances/EMP001/adjust", map[string]any{"days": 0}, http.StatusBadRequest)
	assert.Equal(t, "invalid_input", zero.Error.Code)
}

func TestLeaveRequestListingAndExport(t *testing.T) {
	_, ts := newTestServer(t, testConfig())
	client := ts.Client()
	api := ts.URL + "/api/v1"

	all := decodeData[[]requestView](t, getJSON(t, client, api+"/leave/requests?status=All", http.StatusOK))
	assert.Len(t, all, 3)

	pending := decodeData[[]requestView](t, getJSON(t, client, api+"/leave/requests?status=pending", http.StatusOK))
	require.Len(t, pending, 2)
	for _, r := range pending {
		assert.Equal(t, "Pending", r.Status)
	}

	mine := decodeData[[]requestView](t, getJSON(t, client, api+"/leave/requests?employeeId=EMP001", http.StatusOK))
	require.Len(t, mine, 1)
	assert.Equal(t, "REQ0001", mine[0].RequestID)

	adjusted := decodeData[struct {
		OldBalance int `json:"oldBalance"`
		NewBalance int `json:"newBalance"`
	}](t, postJSON(t, client, api+"/leave/balances/EMP001/adjust", map[string]any{"days": 3}, http.StatusOK))
	assert.Equal(t, 15, adjusted.OldBalance)
	assert.Equal(t, 18, adjusted.NewBalance)

	resp, err := client.Get(api + "/leave/requests/export.pdf?status=Pending")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}
