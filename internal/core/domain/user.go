package domain

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User models the identity the backend vouches for. The console never
// authenticates a user itself; it only mirrors what login/verify returned.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
