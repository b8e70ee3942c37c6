package master

import (
	"context"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
)

// MasterService exposes read-side reference data lookups for UI pickers.
// Reference-data maintenance itself lives outside this service.
type MasterService struct {
	breakTypes timesheet.BreakTypeRepository
	leaveTypes leave.LeaveTypeRepository
	statuses   leave.ApprovalStatusRepository
	shifts     leave.ShiftRepository
}

func NewMasterService(
	breakTypes timesheet.BreakTypeRepository,
	leaveTypes leave.LeaveTypeRepository,
	statuses leave.ApprovalStatusRepository,
	shifts leave.ShiftRepository,
) *MasterService {
	return &MasterService{
		breakTypes: breakTypes,
		leaveTypes: leaveTypes,
		statuses:   statuses,
		shifts:     shifts,
	}
}

// BreakTypeView hides the credential hash from list responses.
type BreakTypeView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Ordinal int    `json:"ordinal"`
	Gated   bool   `json:"gated"`
}

func (s *MasterService) ListBreakTypes(ctx context.Context) ([]BreakTypeView, error) {
	breakTypes, err := s.breakTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]BreakTypeView, 0, len(breakTypes))
	for _, bt := range breakTypes {
		views = append(views, BreakTypeView{
			ID:      bt.ID,
			Name:    bt.Name,
			Ordinal: bt.Ordinal,
			Gated:   bt.SecretHash != nil,
		})
	}
	return views, nil
}

func (s *MasterService) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	return s.leaveTypes.List(ctx)
}

func (s *MasterService) ListApprovalStatuses(ctx context.Context) ([]leave.ApprovalStatus, error) {
	return s.statuses.List(ctx)
}

func (s *MasterService) ListShifts(ctx context.Context) ([]leave.Shift, error) {
	return s.shifts.List(ctx)
}
