package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

type fakeEmployeeRepo struct {
	byCode map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.byCode {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	e, ok := f.byCode[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func TestResolveTarget(t *testing.T) {
	employees := &fakeEmployeeRepo{byCode: map[string]employee.Employee{
		"2024-0002": {ID: "emp-2", Code: "2024-0002", IsActive: true},
	}}
	staff := Principal{EmployeeID: "emp-1", EmployeeCode: "2024-0001", Capability: employee.CapabilitySelf}
	lead := Principal{EmployeeID: "emp-1", EmployeeCode: "2024-0001", Capability: employee.CapabilityTeam}

	t.Run("no employee_code targets self", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances", nil)
		id, err := resolveTarget(r, staff, employees)
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id)
	})

	t.Run("own code targets self without a lookup", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances?employee_code=2024-0001", nil)
		id, err := resolveTarget(r, staff, employees)
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id)
	})

	t.Run("malformed code is rejected before any lookup", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances?employee_code=bogus", nil)
		_, err := resolveTarget(r, lead, employees)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("viewing another employee needs team visibility", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances?employee_code=2024-0002", nil)
		_, err := resolveTarget(r, staff, employees)
		assert.ErrorIs(t, err, employee.ErrVisibilityDenied)
	})

	t.Run("team visibility resolves another employee", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances?employee_code=2024-0002", nil)
		id, err := resolveTarget(r, lead, employees)
		require.NoError(t, err)
		assert.Equal(t, "emp-2", id)
	})

	t.Run("unknown code", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/leave/balances?employee_code=2024-0099", nil)
		_, err := resolveTarget(r, lead, employees)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}
