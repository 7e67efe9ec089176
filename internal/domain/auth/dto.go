package auth

import "github.com/cmlabs-hris/usermanager/internal/pkg/validator"

// LoginRequest is the body of POST /login. The username travels as "text".
type LoginRequest struct {
	Text     string `json:"text"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Text) {
		errs = append(errs, validator.ValidationError{
			Field:   "text",
			Message: "username is required",
		})
	}
	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginResponse struct {
	Message string `json:"message"`
}
