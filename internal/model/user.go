package model

// UserID uniquely identifies a user (player)
type UserID string

// Placeholder identity values until a real auth layer fills them in
const (
	UnknownIdentityProvider = "not defined"
	UnknownUserDetails      = "not defined"
)

// DefaultUserRoles returns the roles assigned to every user
func DefaultUserRoles() []string {
	return []string{"anonymous", "authenticated"}
}

// User represents a player. Users are deduplicated by name and never
// mutated after creation.
type User struct {
	ID   UserID    `json:"id"`
	Kind ModelKind `json:"modelType"`
	Name string    `json:"name"`

	// Identity provider passthrough fields
	IdentityProvider string   `json:"identityProvider"`
	UserDetails      string   `json:"userDetails"`
	UserRoles        []string `json:"userRoles"`
}

// NewUser creates a user with placeholder identity fields
func NewUser(id UserID, name string) *User {
	return &User{
		ID:               id,
		Kind:             KindUser,
		Name:             name,
		IdentityProvider: UnknownIdentityProvider,
		UserDetails:      UnknownUserDetails,
		UserRoles:        DefaultUserRoles(),
	}
}

// Clone returns a deep copy of the user
func (u User) Clone() User {
	u.UserRoles = cloneStrings(u.UserRoles)
	return u
}
