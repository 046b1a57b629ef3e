package models

const (
	EstimationStatusDraft        = "draft"
	EstimationStatusUnderReview  = "under_review"
	EstimationStatusSentToClient = "sent_to_client"
	EstimationStatusApproved     = "estimation_approved"
	EstimationStatusRejected     = "estimation_rejected"
)

// Estimation is the one-to-one costing record of a project. Approved and
// Status are stored separately and are not reconciled.
type Estimation struct {
	BaseModel

	ProjectID    uint     `gorm:"not null;uniqueIndex" json:"project_id"`
	UserID       uint     `gorm:"not null;index" json:"user_id"`
	Status       string   `gorm:"size:20;not null;index" json:"status"`
	Log          string   `json:"log"`
	Cost         *float64 `gorm:"type:decimal(10,2)" json:"cost"`
	Deadline     *Date    `json:"deadline"`
	ApprovalDate *Date    `json:"approval_date"`
	Approved     bool     `gorm:"not null" json:"approved"`
	SentToPM     bool     `gorm:"not null" json:"sent_to_pm"`
	ForwardToID  *uint    `gorm:"index" json:"forward_to"`
	Notes        string   `json:"notes"`
	Updates      string   `json:"updates"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ForwardTo *User   `gorm:"foreignKey:ForwardToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}
