package model

import "time"

type Role string

const (
	RolePerson       Role = "person"
	RoleOrganization Role = "organization"
)

// UserInfo is the signed-in identity kept in the client-readable cookie.
// It is display metadata only; the backend remains the authority.
type UserInfo struct {
	Name           string `json:"name"`
	CurrentTitle   string `json:"current_title"`
	Slug           string `json:"slug"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

// Profile is a person's full profile page payload.
type Profile struct {
	Name           string       `json:"name"`
	Slug           string       `json:"slug"`
	CurrentTitle   string       `json:"current_title"`
	Location       string       `json:"location"`
	About          string       `json:"about"`
	ProfilePicture string       `json:"profile_picture"`
	CoverPicture   string       `json:"cover_picture"`
	Connections    int          `json:"connections"`
	Skills         []Skill      `json:"skills"`
	Experience     []Experience `json:"experience"`
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	CompanySlug string `json:"company_slug,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProfileUpdate is the field set of the profile edit form.
type ProfileUpdate struct {
	Name           string `json:"name"`
	CurrentTitle   string `json:"current_title"`
	Location       string `json:"location"`
	About          string `json:"about"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Credentials is the login form field set.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the registration form field set.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// AuthResult is what the backend returns on successful login/registration.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	User      UserInfo  `json:"user"`
}
