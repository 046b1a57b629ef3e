package models

import "time"

// BaseModel carries the primary key and the automatic timestamps shared by
// every entity. Timestamps are set by gorm and never taken from requests.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&TeamMember{},
		&UploadedFile{},
		&Project{},
		&ProjectFile{},
		&ProjectMoreInfo{},
		&ProjectMoreInfoFile{},
		&ProjectRejection{},
		&ProjectRejectionFile{},
		&Estimation{},
		&EstimationFile{},
		&ProjectTimeLine{},
		&DeliverablesSubmission{},
		&SubmissionSelectedFile{},
		&SubmissionUploadedFile{},
		&Delivery{},
		&DeliveryFile{},
		&DeliveryVerification{},
		&DeliveryVerificationFile{},
		&Task{},
		&TaskSelectedFile{},
		&TaskUploadedFile{},
		&TaskActivityLog{},
		&TaskActivityLogFile{},
		&TaskChat{},
		&TaskChatFile{},
	}
}
