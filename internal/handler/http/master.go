package http

import (
	"net/http"

	"github.com/peopleops-io/workforce-backend-go/internal/handler/http/response"
	"github.com/peopleops-io/workforce-backend-go/internal/service/master"
)

type MasterHandler interface {
	ListBreakTypes(w http.ResponseWriter, r *http.Request)
	ListLeaveTypes(w http.ResponseWriter, r *http.Request)
	ListApprovalStatuses(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
}

type MasterHandlerImpl struct {
	masterService *master.MasterService
}

func NewMasterHandler(svc *master.MasterService) MasterHandler {
	return &MasterHandlerImpl{masterService: svc}
}

// ListBreakTypes implements MasterHandler.
func (h *MasterHandlerImpl) ListBreakTypes(w http.ResponseWriter, r *http.Request) {
	breakTypes, err := h.masterService.ListBreakTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, breakTypes)
}

// ListLeaveTypes implements MasterHandler.
func (h *MasterHandlerImpl) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	leaveTypes, err := h.masterService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, leaveTypes)
}

// ListApprovalStatuses implements MasterHandler.
func (h *MasterHandlerImpl) ListApprovalStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.masterService.ListApprovalStatuses(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, statuses)
}

// ListShifts implements MasterHandler.
func (h *MasterHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.masterService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shifts)
}
