package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

type CreateDeliveryRequest struct {
	Title       string   `json:"title" binding:"required,max=100"`
	Category    string   `json:"category" binding:"required,oneof=mechanical electrical civil instrumentation other"`
	Description string   `json:"description"`
	Priority    string   `json:"priority" binding:"required,oneof=high medium low"`
	Stage       string   `json:"stage" binding:"required,oneof=idc idf ifa afc"`
	Hours       *float64 `json:"hours" binding:"omitempty,min=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=in_progress completed"`
	FileIDs     []uint   `json:"file_ids"`
}

// UpdateDeliveryRequest has no verification status; only a verification
// record can move it.
type UpdateDeliveryRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Category    *string  `json:"category" binding:"omitempty,oneof=mechanical electrical civil instrumentation other"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	Stage       *string  `json:"stage" binding:"omitempty,oneof=idc idf ifa afc"`
	Hours       *float64 `json:"hours" binding:"omitempty,min=0"`
	Status      *string  `json:"status" binding:"omitempty,oneof=in_progress completed"`
	FileIDs     *[]uint  `json:"file_ids"`
}

type CreateSubmissionRequest struct {
	SelectedFileIDs []uint `json:"selected_file_ids"`
	FileIDs         []uint `json:"file_ids"`
	DeliveryIDs     []uint `json:"delivery_ids"`
}

type CreateVerificationRequest struct {
	Status  string `json:"status" binding:"required,oneof=verified rejected"`
	Notes   string `json:"notes"`
	FileIDs []uint `json:"file_ids"`
}

func loadDeliveryFiles(tx *gorm.DB, deliveries []models.Delivery) error {
	ids := make([]uint, len(deliveries))
	for i := range deliveries {
		ids[i] = deliveries[i].ID
	}

	files, err := models.DeliveryFiles.FilesFor(tx, ids)
	if err != nil {
		return apperr.Internal("Failed to load files", err)
	}

	for i := range deliveries {
		deliveries[i].Files = ownedFiles(files, deliveries[i].ID)
	}
	return nil
}

func findDelivery(ctx *gin.Context) (models.Delivery, error) {
	var delivery models.Delivery

	id, err := idParam(ctx, "id")
	if err != nil {
		return delivery, err
	}

	err = lookup(db.DB, &delivery, id, "Delivery not found")
	return delivery, err
}

func CreateDelivery(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateDeliveryRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	status := body.Status
	if status == "" {
		status = models.DeliveryStatusInProgress
	}

	delivery := models.Delivery{
		ProjectID:          project.ID,
		UserID:             current.ID,
		Title:              body.Title,
		Category:           body.Category,
		Description:        body.Description,
		Priority:           body.Priority,
		Stage:              body.Stage,
		Hours:              body.Hours,
		Status:             status,
		VerificationStatus: models.VerificationNotSubmitted,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&delivery).Error; err != nil {
			return dbError("Failed to create delivery", err)
		}
		return attachFiles(tx, models.DeliveryFiles, delivery.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if delivery.Files, err = linkedFiles(db.DB, models.DeliveryFiles, delivery.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Delivery created", delivery)
}

func ListDeliveries(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	query := db.DB.Where("project_id = ?", project.ID).Order("id")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if verification := ctx.Query("verification_status"); verification != "" {
		query = query.Where("verification_status = ?", verification)
	}

	deliveries := []models.Delivery{}

	if err := query.Find(&deliveries).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve deliveries", err))
		return
	}

	if err := loadDeliveryFiles(db.DB, deliveries); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Deliveries", deliveries)
}

func GetDelivery(ctx *gin.Context) {
	delivery, err := findDelivery(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if delivery.Files, err = linkedFiles(db.DB, models.DeliveryFiles, delivery.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Delivery", delivery)
}

func UpdateDelivery(ctx *gin.Context) {
	delivery, err := findDelivery(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateDeliveryRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if body.Hours != nil {
		hours := *body.Hours
		delivery.Hours = &hours
	}

	assign(&delivery.Title, body.Title)
	assign(&delivery.Category, body.Category)
	assign(&delivery.Description, body.Description)
	assign(&delivery.Priority, body.Priority)
	assign(&delivery.Stage, body.Stage)
	assign(&delivery.Status, body.Status)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&delivery).Error; err != nil {
			return dbError("Failed to update delivery", err)
		}
		return replaceFiles(tx, models.DeliveryFiles, delivery.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if delivery.Files, err = linkedFiles(db.DB, models.DeliveryFiles, delivery.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Delivery updated", delivery)
}

func DeleteDelivery(ctx *gin.Context) {
	delivery, err := findDelivery(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&delivery).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete delivery", err))
		return
	}

	respond(ctx, http.StatusOK, "Delivery deleted", nil)
}

// CreateSubmission groups files and points the named deliveries at the new
// submission.
func CreateSubmission(ctx *gin.Context) {
	var body CreateSubmissionRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	var submission models.DeliverablesSubmission

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkFiles(tx, body.SelectedFileIDs, body.FileIDs); err != nil {
			return err
		}

		if len(body.DeliveryIDs) > 0 {
			var count int64
			if err := tx.Model(&models.Delivery{}).Where("id IN ?", body.DeliveryIDs).Count(&count).Error; err != nil {
				return apperr.Internal("Failed to check deliveries", err)
			}
			if int(count) != len(uniqueUints(body.DeliveryIDs)) {
				return apperr.Invalid("Unknown delivery ids")
			}
		}

		if err := tx.Create(&submission).Error; err != nil {
			return dbError("Failed to create submission", err)
		}
		if err := attachFiles(tx, models.SubmissionSelectedFiles, submission.ID, body.SelectedFileIDs); err != nil {
			return err
		}
		if err := attachFiles(tx, models.SubmissionUploadedFiles, submission.ID, body.FileIDs); err != nil {
			return err
		}

		if len(body.DeliveryIDs) == 0 {
			return nil
		}

		err := tx.Model(&models.Delivery{}).
			Where("id IN ?", body.DeliveryIDs).
			Update("submission_id", submission.ID).Error
		if err != nil {
			return apperr.Internal("Failed to link deliveries", err)
		}
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := loadSubmission(db.DB, &submission); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Submission created", submission)
}

func GetSubmission(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var submission models.DeliverablesSubmission

	if err := lookup(db.DB, &submission, id, "Submission not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := loadSubmission(db.DB, &submission); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Submission", submission)
}

func loadSubmission(tx *gorm.DB, submission *models.DeliverablesSubmission) error {
	var err error

	if submission.SelectedFiles, err = linkedFiles(tx, models.SubmissionSelectedFiles, submission.ID); err != nil {
		return err
	}
	if submission.UploadedFiles, err = linkedFiles(tx, models.SubmissionUploadedFiles, submission.ID); err != nil {
		return err
	}

	submission.Deliveries = []models.Delivery{}
	if err := tx.Where("submission_id = ?", submission.ID).Order("id").Find(&submission.Deliveries).Error; err != nil {
		return apperr.Internal("Failed to load deliveries", err)
	}

	return loadDeliveryFiles(tx, submission.Deliveries)
}

// CreateVerification appends a verdict and copies it onto the delivery.
// Earlier verdicts stay on record.
func CreateVerification(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	delivery, err := findDelivery(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateVerificationRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	verification := models.DeliveryVerification{
		DeliveryID: delivery.ID,
		UserID:     current.ID,
		Status:     body.Status,
		Notes:      body.Notes,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&verification).Error; err != nil {
			return dbError("Failed to create verification", err)
		}
		if err := attachFiles(tx, models.DeliveryVerificationFiles, verification.ID, body.FileIDs); err != nil {
			return err
		}
		if err := tx.Model(&delivery).Update("verification_status", verification.Status).Error; err != nil {
			return apperr.Internal("Failed to update delivery", err)
		}
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if verification.Files, err = linkedFiles(db.DB, models.DeliveryVerificationFiles, verification.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Verification recorded", verification)
}

func ListVerifications(ctx *gin.Context) {
	delivery, err := findDelivery(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	verifications := []models.DeliveryVerification{}

	if err := db.DB.Where("delivery_id = ?", delivery.ID).Order("created_at, id").Find(&verifications).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve verifications", err))
		return
	}

	ids := make([]uint, len(verifications))
	for i := range verifications {
		ids[i] = verifications[i].ID
	}

	files, err := models.DeliveryVerificationFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range verifications {
		verifications[i].Files = ownedFiles(files, verifications[i].ID)
	}

	respond(ctx, http.StatusOK, "Verifications", verifications)
}

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
