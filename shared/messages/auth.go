package messages

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenData is the data member of a successful login or refresh response.
type TokenData struct {
	AccessToken string `json:"access_token"`
}

// APIResponse is the HTTP response wrapper shared by login and refresh.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    *TokenData `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
}
