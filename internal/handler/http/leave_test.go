package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	submitFn func(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error)
	decideFn func(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error)
	getFn    func(ctx context.Context, id string) (leave.LeaveRequestResponse, error)
	listFn   func(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	return f.submitFn(ctx, req)
}

func (f *fakeLeaveService) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	return f.decideFn(ctx, req)
}

func (f *fakeLeaveService) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return f.getFn(ctx, id)
}

func (f *fakeLeaveService) ListLeaveRequests(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	return f.listFn(ctx, filter)
}

func leaveTestRouter(svc leave.LeaveService) *chi.Mux {
	h := NewLeaveHandler(svc)
	r := chi.NewRouter()
	r.Post("/leaves", h.Submit)
	r.Get("/leaves", h.List)
	r.Get("/leaves/{id}", h.Get)
	r.Post("/leaves/{id}/decide", h.Decide)
	return r
}

func TestLeaveHandler_Submit_Success(t *testing.T) {
	svc := &fakeLeaveService{
		submitFn: func(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{ID: "lr-1", LeaveType: req.LeaveType, Status: "pending"}, nil
		},
	}

	body, _ := json.Marshal(map[string]string{
		"leave_type": "annual",
		"start_date": "2026-02-02",
		"end_date":   "2026-02-04",
		"reason":     "family trip",
	})
	req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	leaveTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool                       `json:"success"`
		Data    leave.LeaveRequestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "lr-1", envelope.Data.ID)
	assert.Equal(t, "pending", envelope.Data.Status)
}

func TestLeaveHandler_Submit_InvalidJSON(t *testing.T) {
	svc := &fakeLeaveService{}

	req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	leaveTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveHandler_Decide_PassesURLParam(t *testing.T) {
	var gotID string
	svc := &fakeLeaveService{
		decideFn: func(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
			gotID = req.RequestID
			return leave.LeaveRequestResponse{ID: req.RequestID, Status: "approved"}, nil
		},
	}

	body, _ := json.Marshal(map[string]string{"decision": "approve"})
	req := httptest.NewRequest(http.MethodPost, "/leaves/lr-42/decide", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	leaveTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lr-42", gotID)
}

func TestLeaveHandler_Decide_AlreadyDecidedConflict(t *testing.T) {
	svc := &fakeLeaveService{
		decideFn: func(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{}, leave.ErrAlreadyDecided
		},
	}

	body, _ := json.Marshal(map[string]string{"decision": "approve"})
	req := httptest.NewRequest(http.MethodPost, "/leaves/lr-1/decide", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	leaveTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestLeaveHandler_List_ForwardsFilter(t *testing.T) {
	var gotFilter leave.Filter
	svc := &fakeLeaveService{
		listFn: func(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
			gotFilter = filter
			return leave.ListLeaveRequestResponse{Page: filter.Page, Limit: filter.Limit}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/leaves?status=pending&page=2&limit=10", nil)
	rec := httptest.NewRecorder()

	leaveTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, "pending", *gotFilter.Status)
	assert.Equal(t, 2, gotFilter.Page)
	assert.Equal(t, 10, gotFilter.Limit)
}
