package models

// Join tables between owner entities and uploaded files. Each side cascades,
// so removing either the owner or the file removes the link.

var (
	ProjectFiles              = FileLink{Table: "project_files", OwnerColumn: "project_id"}
	ProjectMoreInfoFiles      = FileLink{Table: "project_more_info_files", OwnerColumn: "project_more_info_id"}
	ProjectRejectionFiles     = FileLink{Table: "project_rejection_files", OwnerColumn: "project_rejection_id"}
	EstimationFiles           = FileLink{Table: "estimation_files", OwnerColumn: "estimation_id"}
	SubmissionSelectedFiles   = FileLink{Table: "submission_selected_files", OwnerColumn: "deliverables_submission_id"}
	SubmissionUploadedFiles   = FileLink{Table: "submission_uploaded_files", OwnerColumn: "deliverables_submission_id"}
	DeliveryFiles             = FileLink{Table: "delivery_files", OwnerColumn: "delivery_id"}
	DeliveryVerificationFiles = FileLink{Table: "delivery_verification_files", OwnerColumn: "delivery_verification_id"}
	TaskSelectedFiles         = FileLink{Table: "task_selected_files", OwnerColumn: "task_id"}
	TaskUploadedFiles         = FileLink{Table: "task_uploaded_files", OwnerColumn: "task_id"}
	TaskActivityLogFiles      = FileLink{Table: "task_activity_log_files", OwnerColumn: "task_activity_log_id"}
	TaskChatFiles             = FileLink{Table: "task_chat_files", OwnerColumn: "task_chat_id"}
)

type ProjectFile struct {
	ProjectID      uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	Project      Project      `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type ProjectMoreInfoFile struct {
	ProjectMoreInfoID uint `gorm:"primaryKey"`
	UploadedFileID    uint `gorm:"primaryKey"`

	ProjectMoreInfo ProjectMoreInfo `gorm:"foreignKey:ProjectMoreInfoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile    UploadedFile    `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type ProjectRejectionFile struct {
	ProjectRejectionID uint `gorm:"primaryKey"`
	UploadedFileID     uint `gorm:"primaryKey"`

	ProjectRejection ProjectRejection `gorm:"foreignKey:ProjectRejectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile     UploadedFile     `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type EstimationFile struct {
	EstimationID   uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	Estimation   Estimation   `gorm:"foreignKey:EstimationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type SubmissionSelectedFile struct {
	DeliverablesSubmissionID uint `gorm:"primaryKey"`
	UploadedFileID           uint `gorm:"primaryKey"`

	DeliverablesSubmission DeliverablesSubmission `gorm:"foreignKey:DeliverablesSubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile           UploadedFile           `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type SubmissionUploadedFile struct {
	DeliverablesSubmissionID uint `gorm:"primaryKey"`
	UploadedFileID           uint `gorm:"primaryKey"`

	DeliverablesSubmission DeliverablesSubmission `gorm:"foreignKey:DeliverablesSubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile           UploadedFile           `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type DeliveryFile struct {
	DeliveryID     uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	Delivery     Delivery     `gorm:"foreignKey:DeliveryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type DeliveryVerificationFile struct {
	DeliveryVerificationID uint `gorm:"primaryKey"`
	UploadedFileID         uint `gorm:"primaryKey"`

	DeliveryVerification DeliveryVerification `gorm:"foreignKey:DeliveryVerificationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile         UploadedFile         `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type TaskSelectedFile struct {
	TaskID         uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	Task         Task         `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type TaskUploadedFile struct {
	TaskID         uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	Task         Task         `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type TaskActivityLogFile struct {
	TaskActivityLogID uint `gorm:"primaryKey"`
	UploadedFileID    uint `gorm:"primaryKey"`

	TaskActivityLog TaskActivityLog `gorm:"foreignKey:TaskActivityLogID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile    UploadedFile    `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type TaskChatFile struct {
	TaskChatID     uint `gorm:"primaryKey"`
	UploadedFileID uint `gorm:"primaryKey"`

	TaskChat     TaskChat     `gorm:"foreignKey:TaskChatID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UploadedFile UploadedFile `gorm:"foreignKey:UploadedFileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
