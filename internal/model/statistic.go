package model

type LeaderboardEntry struct {
	User User `json:"user"`
	XP   int  `json:"xp"`
	Rank int  `json:"rank"`
}

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`

	// MyRank is zero when the requester has not earned XP this week.
	MyRank int `json:"my_rank,omitempty"`
}
