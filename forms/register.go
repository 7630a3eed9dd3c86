package forms

import (
	"strings"

	"github.com/Luismorlan/newsdesk/model"
)

// RegisterForm creates an account. Role is fixed from then on.
type RegisterForm struct {
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"required,oneof=reader editor journalist"`
	Password1 string `json:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegisterForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	return check(f)
}

func (f *RegisterForm) ParsedRole() model.Role {
	return model.Role(f.Role)
}

// PhoneNumber is nil when no phone was given.
func (f *RegisterForm) PhoneNumber() *string {
	if f.Phone == "" {
		return nil
	}
	p := f.Phone
	return &p
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// PasswordResetRequestForm asks for a reset link.
type PasswordResetRequestForm struct {
	Email string `json:"email" validate:"required,email"`
}

func (f *PasswordResetRequestForm) Validate() error {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return check(f)
}

// PasswordResetForm picks the new password. A mismatch between the two fields
// is reported by the reset flow, which keeps the token alive in that case.
type PasswordResetForm struct {
	Password     string `json:"password" form:"password" validate:"required,min=8"`
	PasswordConf string `json:"password_conf" form:"password_conf" validate:"required"`
}

func (f *PasswordResetForm) Validate() error {
	return check(f)
}
