package models

type Team struct {
	BaseModel

	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `json:"description"`

	Members []User `gorm:"-" json:"members"`
}

// TeamMember is the explicit join between a team and its member accounts.
type TeamMember struct {
	TeamID uint `gorm:"primaryKey" json:"team_id"`
	UserID uint `gorm:"primaryKey" json:"user_id"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
