package model

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Avatar         string `json:"avatar"`
	Role           string `json:"role,omitempty"`
	IsNewUser      bool   `json:"is_new_user"`
	Level          int    `json:"level"`
	CurrentXP      int    `json:"current_xp"`
	XPToNextLevel  int    `json:"xp_to_next_level"`
	BossesDefeated int    `json:"bosses_defeated"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type GetMeRequest struct{}

type GetMeResponse User

type UpdateUserRequest struct {
	Name string `json:"name"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type SearchUserRequest struct {
	Query string `json:"q"`
}

type SearchUserResponse struct {
	Users []User `json:"users"`
}

type UploadAvatarRequest struct {
	// Avatar data is included in form-data.
}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}

type DailyActivity struct {
	Day string `json:"day"`
	XP  int    `json:"xp"`
}

type GetWeeklyActivityRequest struct {
	UserID string `json:"user_id"`
}

type GetWeeklyActivityResponse struct {
	// Activities always holds seven entries, oldest day first. Days with
	// no earned XP are zero-filled.
	Activities []DailyActivity `json:"activities"`
}
