package entity

// AdminLoginData is the identity carried by an admin bearer token.
type AdminLoginData struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
}

const RoleAdmin = "admin"
