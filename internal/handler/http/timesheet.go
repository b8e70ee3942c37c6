package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/handler/http/response"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
	timesheetService "github.com/peopleops-io/workforce-backend-go/internal/service/timesheet"
)

type TimesheetHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	ActiveSessions(w http.ResponseWriter, r *http.Request)
	UpdateSession(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService *timesheetService.Service
	employees        employee.EmployeeRepository
}

func NewTimesheetHandler(svc *timesheetService.Service, employees employee.EmployeeRepository) TimesheetHandler {
	return &TimesheetHandlerImpl{
		timesheetService: svc,
		employees:        employees,
	}
}

type sessionResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	BreakTypeID   int64      `json:"break_type_id"`
	BreakTypeName *string    `json:"break_type_name,omitempty"`
	PunchIn       time.Time  `json:"punch_in"`
	PunchOut      *time.Time `json:"punch_out,omitempty"`
	Date          string     `json:"date"`
	IsActive      bool       `json:"is_active"`
}

func toSessionResponse(s timesheet.Session) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		BreakTypeID:   s.BreakTypeID,
		BreakTypeName: s.BreakTypeName,
		PunchIn:       s.PunchIn,
		PunchOut:      s.PunchOut,
		Date:          s.Date.Format("2006-01-02"),
		IsActive:      s.IsActive,
	}
}

func toSessionResponses(sessions []timesheet.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return out
}

type punchInRequest struct {
	BreakTypeID int64  `json:"break_type_id"`
	Secret      string `json:"secret"`
}

// PunchIn implements TimesheetHandler. Credential-gated break types are
// checked here, before the state machine is invoked.
func (h *TimesheetHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req punchInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PunchIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.BreakTypeID <= 0 {
		response.BadRequest(w, "break_type_id is required", nil)
		return
	}

	ok, err := h.timesheetService.Authenticate(r.Context(), req.BreakTypeID, req.Secret)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !ok {
		response.HandleError(w, timesheet.ErrInvalidCredential)
		return
	}

	result, err := h.timesheetService.PunchIn(r.Context(), principal.EmployeeID, req.BreakTypeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, toSessionResponses(result.ActiveSessions))
}

type punchOutRequest struct {
	SessionID string `json:"session_id"`
}

// PunchOut implements TimesheetHandler.
func (h *TimesheetHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req punchOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PunchOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if !validator.IsValidUUID(req.SessionID) {
		response.BadRequest(w, "session_id must be a UUID", nil)
		return
	}

	result, err := h.timesheetService.PunchOut(r.Context(), principal.EmployeeID, req.SessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, toSessionResponses(result.ActiveSessions))
}

// ActiveSessions implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ActiveSessions(w http.ResponseWriter, r *http.Request) {
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

	var breakTypeID int64
	if raw := r.URL.Query().Get("break_type_id"); raw != "" {
		if !validator.IsNumeric(raw) {
			response.BadRequest(w, "break_type_id must be numeric", nil)
			return
		}
		breakTypeID, _ = strconv.ParseInt(raw, 10, 64)
	}

	sessions, err := h.timesheetService.ActiveSessions(r.Context(), targetID, breakTypeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toSessionResponses(sessions))
}

type updateSessionRequest struct {
	EmployeeID  string  `json:"employee_id"`
	PunchIn     *string `json:"punch_in"`
	PunchOut    *string `json:"punch_out"`
	BreakTypeID *int64  `json:"break_type_id"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateSession implements TimesheetHandler. Administrative correction of a
// historical session.
func (h *TimesheetHandlerImpl) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(sessionID) {
		response.BadRequest(w, "Session ID must be a UUID", nil)
		return
	}

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSession decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	patch := timesheet.SessionPatch{
		BreakTypeID: req.BreakTypeID,
		IsActive:    req.IsActive,
	}
	if req.PunchIn != nil {
		t, ok := validator.IsValidDateTime(*req.PunchIn)
		if !ok {
			response.BadRequest(w, "punch_in must be an RFC3339 timestamp", nil)
			return
		}
		patch.PunchIn = &t
	}
	if req.PunchOut != nil {
		t, ok := validator.IsValidDateTime(*req.PunchOut)
		if !ok {
			response.BadRequest(w, "punch_out must be an RFC3339 timestamp", nil)
			return
		}
		patch.PunchOut = &t
	}

	session, err := h.timesheetService.Update(r.Context(), req.EmployeeID, sessionID, patch)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session updated", toSessionResponse(session))
}

// DeleteSession implements TimesheetHandler.
func (h *TimesheetHandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(sessionID) {
		response.BadRequest(w, "Session ID must be a UUID", nil)
		return
	}

	if err := h.timesheetService.Delete(r.Context(), sessionID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}
