package models

// UserSummary is the identity projection returned by signin. Only ID is
// needed to build user scoped resource paths.
type UserSummary struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (u UserSummary) Validate() error {
	return validate.Struct(u)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// AuthResponse is the signin/signup body: a token next to the user fields.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	UserSummary
}

// Summary drops the token.
func (r AuthResponse) Summary() UserSummary {
	return r.UserSummary
}

// Validate checks the user fields only when a token came back; a response
// without a token does not start a session.
func (r AuthResponse) Validate() error {
	if r.Token == "" {
		return nil
	}
	return r.UserSummary.Validate()
}
