package model

type TokenRequest struct {
	Name string `json:"name"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// DashboardClaims identifies an authenticated dashboard session.
type DashboardClaims struct {
	Subject string
	Name    string
}
