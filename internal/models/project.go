package models

const (
	ProjectStatusDraft       = "draft"
	ProjectStatusUnderReview = "under_review"
	ProjectStatusApproved    = "approved"
	ProjectStatusRejected    = "rejected"
	ProjectStatusCompleted   = "completed"
)

// Project is the top-level unit of work. Status and the two routing flags are
// independent fields; nothing here constrains how they change.
type Project struct {
	BaseModel

	UserID             uint   `gorm:"not null;index" json:"user_id"`
	Name               string `gorm:"size:100;not null" json:"name"`
	Code               string `gorm:"column:project_id;size:50;uniqueIndex;not null" json:"project_id"`
	ReceivedDate       Date   `gorm:"not null" json:"received_date"`
	ClientName         string `gorm:"size:100" json:"client_name"`
	ClientCompany      string `gorm:"size:100" json:"client_company"`
	Location           string `gorm:"size:100" json:"location"`
	ProjectType        string `gorm:"size:50" json:"project_type"`
	Priority           string `gorm:"size:20" json:"priority"`
	ContactPerson      string `gorm:"size:100" json:"contact_person"`
	ContactPersonPhone string `gorm:"size:15" json:"contact_person_phone"`
	ContactPersonEmail string `gorm:"size:254" json:"contact_person_email"`
	Notes              string `json:"notes"`
	Status             string `gorm:"size:20;not null;index" json:"status"`
	SendToEstimation   bool   `gorm:"not null" json:"send_to_estimation"`
	SendToCoordinator  bool   `gorm:"not null" json:"send_to_coordinator"`
	CoordinatorID      *uint  `gorm:"index" json:"coordinator_id"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	User        User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Coordinator *User `gorm:"foreignKey:CoordinatorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

type ProjectMoreInfo struct {
	BaseModel

	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	Notes     string `json:"notes"`
	Enquiry   string `json:"enquiry"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

type ProjectTimeLine struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index" json:"project_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `json:"description"`
	StartDate   Date   `gorm:"not null" json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Completed   bool   `gorm:"not null" json:"completed"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// ProjectRejection records why a project was turned back, with supporting
// files. Creating one marks the project rejected.
type ProjectRejection struct {
	BaseModel

	ProjectID uint   `gorm:"not null;index" json:"project_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Note      string `gorm:"not null" json:"note"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
