package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/handler/http/response"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
	leaveService "github.com/peopleops-io/workforce-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveService.RequestService
	ledger         *leaveService.Ledger
	employees      employee.EmployeeRepository
}

func NewLeaveHandler(requestService *leaveService.RequestService, ledger *leaveService.Ledger, employees employee.EmployeeRepository) LeaveHandler {
	return &LeaveHandlerImpl{
		requestService: requestService,
		ledger:         ledger,
		employees:      employees,
	}
}

type leaveRequestResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    int64     `json:"leave_type_id"`
	LeaveTypeName  *string   `json:"leave_type_name,omitempty"`
	ShiftID        *int64    `json:"shift_id,omitempty"`
	DateOfAbsence  string    `json:"date_of_absence"`
	ExpectedReturn string    `json:"expected_date_of_return"`
	Reason         string    `json:"reason"`
	StatusName     *string   `json:"status,omitempty"`
	TimeOfNotice   time.Time `json:"time_of_notice"`
	Recommendation *string   `json:"recommendation,omitempty"`
	DocumentName   *string   `json:"document_name,omitempty"`
	DocumentURL    *string   `json:"document_url,omitempty"`
	RequestedDays  float64   `json:"requested_days"`
}

func toLeaveRequestResponse(lr leave.LeaveRequest) leaveRequestResponse {
	return leaveRequestResponse{
		ID:             lr.ID,
		EmployeeID:     lr.EmployeeID,
		LeaveTypeID:    lr.LeaveTypeID,
		LeaveTypeName:  lr.LeaveTypeName,
		ShiftID:        lr.ShiftID,
		DateOfAbsence:  lr.DateOfAbsence.Format("2006-01-02"),
		ExpectedReturn: lr.ExpectedReturn.Format("2006-01-02"),
		Reason:         lr.Reason,
		StatusName:     lr.StatusName,
		TimeOfNotice:   lr.TimeOfNotice,
		Recommendation: lr.Recommendation,
		DocumentName:   lr.DocumentName,
		DocumentURL:    lr.DocumentURL,
		RequestedDays:  lr.RequestedDays,
	}
}

// CreateRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = principal.EmployeeID

	created, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", toLeaveRequestResponse(created))
}

type updateLeaveRequestRequest struct {
	DateOfAbsence        *string `json:"date_of_absence"`
	ExpectedDateOfReturn *string `json:"expected_date_of_return"`
	ShiftID              *int64  `json:"shift_id"`
	Reason               *string `json:"reason"`
	ApprovalStatusID     *int64  `json:"approval_status_id"`
	Recommendation       *string `json:"recommendation"`
	DocumentName         *string `json:"document_name"`
	DocumentURL          *string `json:"document_url"`
}

// UpdateRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Request ID must be a UUID", nil)
		return
	}

	var req updateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	patch := leave.LeaveRequestPatch{
		ShiftID:          req.ShiftID,
		Reason:           req.Reason,
		ApprovalStatusID: req.ApprovalStatusID,
		Recommendation:   req.Recommendation,
		DocumentName:     req.DocumentName,
		DocumentURL:      req.DocumentURL,
	}
	if req.DateOfAbsence != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfAbsence)
		if err != nil {
			response.BadRequest(w, "date_of_absence must be a date in YYYY-MM-DD format", nil)
			return
		}
		patch.DateOfAbsence = &t
	}
	if req.ExpectedDateOfReturn != nil {
		t, err := time.Parse("2006-01-02", *req.ExpectedDateOfReturn)
		if err != nil {
			response.BadRequest(w, "expected_date_of_return must be a date in YYYY-MM-DD format", nil)
			return
		}
		patch.ExpectedReturn = &t
	}

	if err := h.requestService.Update(r.Context(), requestID, patch); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// DeleteRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Request ID must be a UUID", nil)
		return
	}

	if err := h.requestService.Delete(r.Context(), requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// GetRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Request ID must be a UUID", nil)
		return
	}

	request, err := h.requestService.GetByID(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLeaveRequestResponse(request))
}

// GetMyRequests implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.requestService.ListByEmployee(r.Context(), principal.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		out = append(out, toLeaveRequestResponse(lr))
	}
	response.Success(w, out)
}

// GetBalances implements LeaveHandler.
func (h *LeaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	targetID, err := resolveTarget(r, principal, h.employees)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := h.ledger.BalancesForEmployee(r.Context(), targetID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	type balanceResponse struct {
		LeaveTypeID   int64   `json:"leave_type_id"`
		LeaveTypeName string  `json:"leave_type_name"`
		Balance       float64 `json:"balance"`
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse{
			LeaveTypeID:   b.LeaveTypeID,
			LeaveTypeName: b.LeaveTypeName,
			Balance:       b.Balance,
		})
	}
	response.Success(w, out)
}

// GetStatistics implements LeaveHandler.
func (h *LeaveHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	targetID, err := resolveTarget(r, principal, h.employees)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.requestService.Statistics(r.Context(), targetID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{
		"pending_count":  stats.PendingCount,
		"approved_count": stats.ApprovedCount,
	})
}
