package user

// Claims is the verified identity extracted from a bearer token.
//
// Users are created and managed by the external identity provider; the only
// thing that crosses into this application is the owner id carried in the
// token's subject claim.
type Claims struct {
	UserID string `json:"user_id"`
}
