package model

// Access Token and Refresh Token
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type RefreshToken struct {
	Family  string
	Counter uint64
}

// Register with email and password
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login with email and password
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// OAuth2 Verify
type OAuth2VerifyRequest struct {
	Type    string `json:"type"`
	IDToken string `json:"id_token"`
}

type OAuth2VerifyResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh token rotation
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionInfo lets browser clients keep the access token in the session
// cookie instead of storing it themselves.
func (r *RegisterResponse) SessionInfo() map[string]any {
	return map[string]any{"access_token": r.AccessToken}
}

func (r *LoginResponse) SessionInfo() map[string]any {
	return map[string]any{"access_token": r.AccessToken}
}

func (r *OAuth2VerifyResponse) SessionInfo() map[string]any {
	return map[string]any{"access_token": r.AccessToken}
}

func (r *RefreshTokenResponse) SessionInfo() map[string]any {
	return map[string]any{"access_token": r.AccessToken}
}
