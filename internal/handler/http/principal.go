package http

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/auth"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// Principal is the authenticated employee extracted from token claims.
// Handlers pass it explicitly into services; nothing downstream reads claims.
type Principal struct {
	EmployeeID   string
	EmployeeCode string
	Capability   employee.Capability
}

func principalFromContext(ctx context.Context) (Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Principal{}, auth.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Principal{}, auth.ErrInvalidToken
	}
	employeeCode, _ := claims["employee_code"].(string)
	capability, _ := claims["capability"].(string)

	return Principal{
		EmployeeID:   employeeID,
		EmployeeCode: employeeCode,
		Capability:   employee.Capability(capability),
	}, nil
}

// resolveTarget picks the employee a read applies to: the principal itself,
// or — for callers holding at least team visibility — another employee
// addressed by the employee_code query parameter.
func resolveTarget(r *http.Request, p Principal, employees employee.EmployeeRepository) (string, error) {
	code := r.URL.Query().Get("employee_code")
	if code == "" || code == p.EmployeeCode {
		return p.EmployeeID, nil
	}
	if !validator.IsValidEmployeeCode(code) {
		return "", validator.ValidationErrors{
			{Field: "employee_code", Message: "must be in 0000-0000 format"},
		}
	}
	if !p.Capability.AtLeast(employee.CapabilityTeam) {
		return "", employee.ErrVisibilityDenied
	}
	target, err := employees.GetByCode(r.Context(), code)
	if err != nil {
		return "", err
	}
	return target.ID, nil
}
