package models

const (
	DeliveryStatusInProgress = "in_progress"
	DeliveryStatusCompleted  = "completed"

	VerificationNotSubmitted = "not_submitted"
	VerificationSubmitted    = "submitted"
	VerificationVerified     = "verified"
	VerificationRejected     = "rejected"
)

// DeliverablesSubmission batches previously uploaded (selected) and freshly
// uploaded files so they can be linked to several deliveries at once.
type DeliverablesSubmission struct {
	BaseModel

	SelectedFiles []UploadedFile `gorm:"-" json:"selected_files"`
	UploadedFiles []UploadedFile `gorm:"-" json:"uploaded_files"`
	Deliveries    []Delivery     `gorm:"-" json:"deliveries"`
}

type Delivery struct {
	BaseModel

	ProjectID          uint     `gorm:"not null;index" json:"project_id"`
	UserID             uint     `gorm:"not null;index" json:"user_id"`
	Title              string   `gorm:"size:100;not null" json:"title"`
	Category           string   `gorm:"size:50" json:"category"`
	Description        string   `json:"description"`
	Priority           string   `gorm:"size:20" json:"priority"`
	Stage              string   `gorm:"size:20" json:"stage"`
	Hours              *float64 `gorm:"type:decimal(10,2)" json:"hours"`
	SubmissionID       *uint    `gorm:"index" json:"submission_id"`
	Status             string   `gorm:"size:20;not null" json:"status"`
	VerificationStatus string   `gorm:"size:20;not null" json:"verification_status"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Project    Project                 `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User       User                    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Submission *DeliverablesSubmission `gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

// DeliveryVerification is an append-only verdict on a delivery.
type DeliveryVerification struct {
	BaseModel

	DeliveryID uint   `gorm:"not null;index" json:"delivery_id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Status     string `gorm:"size:20;not null" json:"status"`
	Notes      string `json:"notes"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Delivery Delivery `gorm:"foreignKey:DeliveryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
