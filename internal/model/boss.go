package model

type Chore struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	XP               int    `json:"xp"`
	Damage           int    `json:"damage"`
	Completed        bool   `json:"completed"`
	Difficulty       string `json:"difficulty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type Boss struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ImageURL         string  `json:"image_url"`
	TotalHealth      int     `json:"total_health"`
	CurrentHealth    int     `json:"current_health"`
	Status           string  `json:"status"`
	LevelRequirement int     `json:"level_requirement"`
	Chores           []Chore `json:"chores"`
	CreatedAt        string  `json:"created_at,omitempty"`
}

// Manual boss creation
type CreateChore struct {
	Title            string `json:"title"`
	XP               int    `json:"xp"`
	Damage           int    `json:"damage"`
	Difficulty       string `json:"difficulty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type CreateBossRequest struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	TotalHealth      int           `json:"total_health"`
	LevelRequirement int           `json:"level_requirement"`
	Chores           []CreateChore `json:"chores"`
}

type CreateBossResponse struct {
	Boss Boss `json:"boss"`
}

// AI summon
type SummonBossRequest struct {
	Description string `json:"description"`
}

type SummonBossResponse struct {
	Boss Boss `json:"boss"`

	// Fallback is true when the generative provider failed and a stand-in
	// boss was created instead.
	Fallback bool `json:"fallback"`
}

type GetBossRequest struct {
	BossID string `json:"boss_id"`
}

type GetBossResponse struct {
	Boss Boss `json:"boss"`
}

type GetMyBossesRequest struct {
	// AliveOnly restricts the list to bosses still standing, for the
	// battle screen.
	AliveOnly bool `json:"alive_only"`
}

type GetMyBossesResponse struct {
	Bosses []Boss `json:"bosses"`
}

// Chore completion
type CompleteChoreRequest struct {
	// BossID is optional, the chore already knows its boss. When given it
	// must match, so a stale client cannot hit a chore of another boss.
	BossID  string `json:"boss_id"`
	ChoreID string `json:"chore_id"`
}

type CompleteChoreResponse struct {
	User         User `json:"user"`
	Boss         Boss `json:"boss"`
	XPGained     int  `json:"xp_gained"`
	DamageDealt  int  `json:"damage_dealt"`
	LeveledUp    bool `json:"leveled_up"`
	BossDefeated bool `json:"boss_defeated"`
}

// Summon history
type BossGeneration struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	CreatedAt string `json:"created_at"`
}

type GetSummonHistoryRequest struct{}

type GetSummonHistoryResponse struct {
	Generations []BossGeneration `json:"generations"`
}

type ResummonBossRequest struct {
	GenerationID string `json:"generation_id"`
}

type ResummonBossResponse struct {
	Boss Boss `json:"boss"`
}
