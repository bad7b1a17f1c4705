package user

// Principal is the authenticated caller as resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}
