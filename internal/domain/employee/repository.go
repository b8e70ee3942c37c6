package employee

import "context"

// EmployeeRepository - read-only directory lookup
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
}
