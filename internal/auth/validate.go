package auth

import (
	"strings"

	"github.com/ayush/rv-checklist/backend/internal/models"
	"github.com/ayush/rv-checklist/backend/internal/validation"
)

// RegisterCommand is a validated registration request.
type RegisterCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginCommand is a validated login request.
type LoginCommand struct {
	Email    string
	Password string
}

// ValidateRegister checks a registration body. Email is kept verbatim since
// it is a case-sensitive key; names are trimmed.
func ValidateRegister(req models.RegisterRequest) (RegisterCommand, error) {
	cmd := RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	v := validation.Violations{}
	v.Check("email", cmd.Email, "required", "Email is required")
	v.Check("email", cmd.Email, "email", "Please enter a valid email address")
	v.Check("password", cmd.Password, "required", "Password is required")
	v.Check("password", cmd.Password, "min=6", "Password must be at least 6 characters long")
	// bcrypt only reads the first 72 bytes.
	if len(cmd.Password) > 72 {
		v.Add("password", "Password cannot exceed 72 bytes")
	}
	v.Check("firstName", cmd.FirstName, "required", "First name is required")
	v.Check("firstName", cmd.FirstName, "max=50", "First name cannot exceed 50 characters")
	v.Check("lastName", cmd.LastName, "required", "Last name is required")
	v.Check("lastName", cmd.LastName, "max=50", "Last name cannot exceed 50 characters")

	if err := v.Err(); err != nil {
		return RegisterCommand{}, err
	}
	return cmd, nil
}

// ValidateLogin checks a login body.
func ValidateLogin(req models.LoginRequest) (LoginCommand, error) {
	v := validation.Violations{}
	v.Check("email", req.Email, "required", "Email is required")
	v.Check("email", req.Email, "email", "Please enter a valid email address")
	v.Check("password", req.Password, "required", "Password is required")
	if err := v.Err(); err != nil {
		return LoginCommand{}, err
	}
	return LoginCommand{Email: req.Email, Password: req.Password}, nil
}
