package entity

// BossGeneration is one append-only audit record of a generative-AI summon:
// the literal prompt and the literal raw response, kept for later display and
// resummoning.
type BossGeneration struct {
	SnowFlakeBase

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Prompt      string `gorm:"type:text"`
	RawResponse string `gorm:"type:text"`
}
