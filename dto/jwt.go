package dto

// TokenPair is returned on login, registration and refresh. Lifetimes are in seconds.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type" example:"Bearer"`
	ExpiresIn        int64  `json:"expires_in" example:"86400"`
	RefreshExpiresIn int64  `json:"refresh_expires_in" example:"604800"`
}
