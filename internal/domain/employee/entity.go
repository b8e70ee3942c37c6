package employee

import "time"

// Capability is the coarse visibility tier an employee's roles resolve to.
// It is computed once when the directory resolves the employee and threaded
// through claims; handlers never match on raw role strings.
type Capability string

const (
	CapabilityFull       Capability = "full"       // HR admin: whole organization
	CapabilityDepartment Capability = "department" // manager: own department
	CapabilityTeam       Capability = "team"       // team lead: own team
	CapabilitySelf       Capability = "self"       // staff: own records only
)

// capabilityRank orders capabilities by privilege, highest first.
var capabilityRank = map[Capability]int{
	CapabilityFull:       3,
	CapabilityDepartment: 2,
	CapabilityTeam:       1,
	CapabilitySelf:       0,
}

// AtLeast reports whether c grants at least the privilege of min.
func (c Capability) AtLeast(min Capability) bool {
	return capabilityRank[c] >= capabilityRank[min]
}

// roleCapabilities maps directory role names to capabilities.
var roleCapabilities = map[string]Capability{
	"admin":      CapabilityFull,
	"hr_admin":   CapabilityFull,
	"manager":    CapabilityDepartment,
	"supervisor": CapabilityDepartment,
	"team_lead":  CapabilityTeam,
	"staff":      CapabilitySelf,
}

// ReduceCapability reduces an employee's role list to one effective
// capability by privilege order. Unknown roles count as staff.
func ReduceCapability(roles []string) Capability {
	effective := CapabilitySelf
	for _, role := range roles {
		cap, ok := roleCapabilities[role]
		if !ok {
			continue
		}
		if cap.AtLeast(effective) {
			effective = cap
		}
	}
	return effective
}

// Employee is the directory view of a person. Identity and role storage live
// outside this service; this entity is a read model.
type Employee struct {
	ID           string
	Code         string
	Name         string
	DepartmentID *string
	TeamID       *string
	PositionName *string
	PINHash      *string
	IsActive     bool
	Roles        []string
	Capability   Capability

	CreatedAt time.Time
	UpdatedAt time.Time
}
