package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/auth"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/jwt"
)

// AuthService exchanges an employee code + PIN for an access token. Identity
// and role storage are external; this only verifies against the directory's
// stored hash and mints a token carrying the resolved principal.
type AuthService struct {
	employees  employee.EmployeeRepository
	jwtService jwt.Service
}

func NewAuthService(employees employee.EmployeeRepository, jwtService jwt.Service) *AuthService {
	return &AuthService{
		employees:  employees,
		jwtService: jwtService,
	}
}

func (s *AuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	emp, err := s.employees.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("resolve employee: %w", err)
	}
	if !emp.IsActive {
		return auth.LoginResponse{}, employee.ErrEmployeeInactive
	}
	if emp.PINHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PINHash), []byte(req.PIN)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.Code, emp.Capability)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("generate access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		EmployeeID:  emp.ID,
		Capability:  string(emp.Capability),
	}, nil
}
