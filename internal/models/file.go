package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	FileStatusDraft       = "draft"
	FileStatusUnderReview = "under_review"
	FileStatusApproved    = "approved"
	FileStatusRejected    = "rejected"
)

type UploadedFile struct {
	BaseModel

	Label        string `gorm:"size:100;not null" json:"label"`
	File         string `gorm:"size:255;not null" json:"file"` // storage reference
	ContentType  string `gorm:"size:100" json:"content_type"`
	Size         int64  `json:"size"`
	UploadedByID uint   `gorm:"not null;index" json:"uploaded_by"`
	Status       string `gorm:"size:20;not null" json:"status"`

	// Relationships
	UploadedBy User `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// FileLink names a join table that ties owner rows to uploaded files.
type FileLink struct {
	Table       string
	OwnerColumn string
}

type linkedFile struct {
	UploadedFile
	LinkOwnerID uint
}

// Attach links fileIDs to the owner. Links that already exist are kept.
func (l FileLink) Attach(tx *gorm.DB, ownerID uint, fileIDs []uint) error {
	ids := uniqueIDs(fileIDs)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{
			l.OwnerColumn:      ownerID,
			"uploaded_file_id": id,
		})
	}

	return tx.Table(l.Table).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

// Replace swaps the owner's linked files for fileIDs.
func (l FileLink) Replace(tx *gorm.DB, ownerID uint, fileIDs []uint) error {
	if err := tx.Exec("DELETE FROM "+l.Table+" WHERE "+l.OwnerColumn+" = ?", ownerID).Error; err != nil {
		return err
	}
	return l.Attach(tx, ownerID, fileIDs)
}

func (l FileLink) Files(tx *gorm.DB, ownerID uint) ([]UploadedFile, error) {
	byOwner, err := l.FilesFor(tx, []uint{ownerID})
	if err != nil {
		return nil, err
	}
	return byOwner[ownerID], nil
}

// FilesFor loads the linked files of several owners at once, keyed by owner id.
func (l FileLink) FilesFor(tx *gorm.DB, ownerIDs []uint) (map[uint][]UploadedFile, error) {
	result := make(map[uint][]UploadedFile, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	var rows []linkedFile
	err := tx.Table("uploaded_files").
		Select("uploaded_files.*, "+l.Table+"."+l.OwnerColumn+" AS link_owner_id").
		Joins("JOIN "+l.Table+" ON "+l.Table+".uploaded_file_id = uploaded_files.id").
		Where(l.Table+"."+l.OwnerColumn+" IN ?", ownerIDs).
		Order("uploaded_files.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.LinkOwnerID] = append(result[row.LinkOwnerID], row.UploadedFile)
	}

	return result, nil
}

// MissingFiles returns the ids in fileIDs that have no uploaded_files row.
func MissingFiles(tx *gorm.DB, fileIDs []uint) ([]uint, error) {
	ids := uniqueIDs(fileIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := tx.Model(&UploadedFile{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}

	var missing []uint
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
		}
	}

	return missing, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
