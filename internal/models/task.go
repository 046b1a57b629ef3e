package models

const (
	TaskStatusToDo       = "to_do"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"

	ActionStart    = "start"
	ActionPause    = "pause"
	ActionReOpen   = "re_open"
	ActionComplete = "complete"
)

// Task can point at a team and an individual at the same time; both are weak
// references. Completed is kept apart from Status.
type Task struct {
	BaseModel

	ProjectID            uint     `gorm:"not null;index" json:"project_id"`
	UserID               uint     `gorm:"not null;index" json:"user_id"`
	Title                string   `gorm:"size:100;not null" json:"title"`
	Description          string   `json:"description"`
	Status               string   `gorm:"size:20;not null;index" json:"status"`
	Priority             string   `gorm:"size:20;not null" json:"priority"`
	StartDate            Date     `gorm:"not null" json:"start_date"`
	DueDate              *Date    `json:"due_date"`
	Hours                *float64 `gorm:"type:decimal(10,2)" json:"hours"`
	AssignedTeamID       *uint    `gorm:"index" json:"assigned_team"`
	AssignedIndividualID *uint    `gorm:"index" json:"assigned_individual"`
	Completed            bool     `gorm:"not null" json:"completed"`

	SelectedFiles []UploadedFile `gorm:"-" json:"selected_files"`
	UploadedFiles []UploadedFile `gorm:"-" json:"uploaded_files"`

	// Relationships
	Project            Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User               User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AssignedTeam       *Team   `gorm:"foreignKey:AssignedTeamID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	AssignedIndividual *User   `gorm:"foreignKey:AssignedIndividualID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

type TaskActivityLog struct {
	BaseModel

	TaskID uint   `gorm:"not null;index" json:"task_id"`
	Action string `gorm:"size:100;not null" json:"action"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Note   string `json:"note"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

type TaskChat struct {
	BaseModel

	TaskID  uint   `gorm:"not null;index" json:"task_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Message string `gorm:"not null" json:"message"`

	Files []UploadedFile `gorm:"-" json:"files"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
