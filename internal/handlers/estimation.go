package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateEstimationRequest struct {
	Status       string   `json:"status" binding:"omitempty,oneof=draft under_review sent_to_client estimation_approved estimation_rejected"`
	Log          string   `json:"log"`
	Cost         *float64 `json:"cost" binding:"omitempty,min=0"`
	Deadline     *string  `json:"deadline"`
	ApprovalDate *string  `json:"approval_date"`
	Approved     bool     `json:"approved"`
	SentToPM     bool     `json:"sent_to_pm"`
	ForwardTo    *uint    `json:"forward_to"`
	Notes        string   `json:"notes"`
	Updates      string   `json:"updates"`
	FileIDs      []uint   `json:"file_ids"`
}

type UpdateEstimationRequest struct {
	Status       *string  `json:"status" binding:"omitempty,oneof=draft under_review sent_to_client estimation_approved estimation_rejected"`
	Log          *string  `json:"log"`
	Cost         *float64 `json:"cost" binding:"omitempty,min=0"`
	Deadline     *string  `json:"deadline"`
	ApprovalDate *string  `json:"approval_date"`
	Approved     *bool    `json:"approved"`
	SentToPM     *bool    `json:"sent_to_pm"`
	ForwardTo    *uint    `json:"forward_to"`
	Notes        *string  `json:"notes"`
	Updates      *string  `json:"updates"`
	FileIDs      *[]uint  `json:"file_ids"`
}

// findEstimation loads the estimation of the project named by :id.
func findEstimation(ctx *gin.Context) (models.Estimation, error) {
	var estimation models.Estimation

	project, err := findProject(ctx, "id")
	if err != nil {
		return estimation, err
	}

	err = db.DB.Where("project_id = ?", project.ID).First(&estimation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return estimation, apperr.NotFound("Estimation not found")
	}
	if err != nil {
		return estimation, apperr.Internal("Failed to retrieve estimation", err)
	}

	return estimation, nil
}

func withEstimationFiles(estimation *models.Estimation) error {
	files, err := linkedFiles(db.DB, models.EstimationFiles, estimation.ID)
	if err != nil {
		return err
	}
	estimation.Files = files
	return nil
}

// CreateEstimation opens the single estimation a project may have.
func CreateEstimation(ctx *gin.Context) {
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

	var body CreateEstimationRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	deadline, err := utils.ParseOptionalDate(body.Deadline)

	if err != nil {
		respondError(ctx, apperr.Invalid("deadline: "+err.Error()))
		return
	}

	approvalDate, err := utils.ParseOptionalDate(body.ApprovalDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("approval_date: "+err.Error()))
		return
	}

	status := body.Status
	if status == "" {
		status = models.EstimationStatusDraft
	}

	estimation := models.Estimation{
		ProjectID:    project.ID,
		UserID:       current.ID,
		Status:       status,
		Log:          body.Log,
		Cost:         body.Cost,
		Deadline:     deadline,
		ApprovalDate: approvalDate,
		Approved:     body.Approved,
		SentToPM:     body.SentToPM,
		Notes:        body.Notes,
		Updates:      body.Updates,
	}
	assignRef(&estimation.ForwardToID, body.ForwardTo)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Estimation{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
			return apperr.Internal("Failed to check estimation", err)
		}
		if count > 0 {
			return apperr.Conflict("Project already has an estimation")
		}
		if err := exists(tx, &models.User{}, estimation.ForwardToID, "forward_to"); err != nil {
			return err
		}
		if err := tx.Create(&estimation).Error; err != nil {
			return dbError("Failed to create estimation", err)
		}
		return attachFiles(tx, models.EstimationFiles, estimation.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := withEstimationFiles(&estimation); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Estimation created", estimation)
}

func GetEstimation(ctx *gin.Context) {
	estimation, err := findEstimation(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := withEstimationFiles(&estimation); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Estimation", estimation)
}

// UpdateEstimation writes the supplied fields as they are. Approved and
// Status are independent of each other.
func UpdateEstimation(ctx *gin.Context) {
	estimation, err := findEstimation(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateEstimationRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignOptionalDate(&estimation.Deadline, body.Deadline, "deadline"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignOptionalDate(&estimation.ApprovalDate, body.ApprovalDate, "approval_date"); err != nil {
		respondError(ctx, err)
		return
	}

	if body.Cost != nil {
		cost := *body.Cost
		estimation.Cost = &cost
	}

	assign(&estimation.Status, body.Status)
	assign(&estimation.Log, body.Log)
	assign(&estimation.Approved, body.Approved)
	assign(&estimation.SentToPM, body.SentToPM)
	assign(&estimation.Notes, body.Notes)
	assign(&estimation.Updates, body.Updates)
	assignRef(&estimation.ForwardToID, body.ForwardTo)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, estimation.ForwardToID, "forward_to"); err != nil {
			return err
		}
		if err := tx.Save(&estimation).Error; err != nil {
			return dbError("Failed to update estimation", err)
		}
		return replaceFiles(tx, models.EstimationFiles, estimation.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := withEstimationFiles(&estimation); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Estimation updated", estimation)
}

func DeleteEstimation(ctx *gin.Context) {
	estimation, err := findEstimation(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&estimation).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete estimation", err))
		return
	}

	respond(ctx, http.StatusOK, "Estimation deleted", nil)
}

// ListEstimations is the estimation team's inbox, optionally narrowed to the
// account it was forwarded to and a status.
func ListEstimations(ctx *gin.Context) {
	query := db.DB.Order("id")

	if raw := ctx.Query("forward_to"); raw != "" {
		forwardTo, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(ctx, apperr.Invalid("Invalid forward_to"))
			return
		}
		query = query.Where("forward_to_id = ?", forwardTo)
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	estimations := []models.Estimation{}

	if err := query.Find(&estimations).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve estimations", err))
		return
	}

	ids := make([]uint, len(estimations))
	for i := range estimations {
		ids[i] = estimations[i].ID
	}

	files, err := models.EstimationFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range estimations {
		estimations[i].Files = ownedFiles(files, estimations[i].ID)
	}

	respond(ctx, http.StatusOK, "Estimations", estimations)
}
