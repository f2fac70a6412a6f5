package domain

import "strings"

// Session is the identity the server reports for the signed-in user.
type Session struct {
	ID    ID     `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(s.Email); email != "" {
		return email
	}
	return string(s.ID)
}

type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return NewValidationError("login", "missing "+strings.Join(missing, ", "))
	}
	return nil
}

type Profile struct {
	Name     string
	Email    string
	Password string
}

func (p Profile) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return NewValidationError("register", "missing "+strings.Join(missing, ", "))
	}
	return nil
}
