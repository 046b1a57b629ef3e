package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

type CreateRejectionRequest struct {
	Note    string `json:"note" binding:"required"`
	FileIDs []uint `json:"file_ids"`
}

// CreateRejection records a rejection note and marks the project rejected
// in the same transaction.
func CreateRejection(ctx *gin.Context) {
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

	var body CreateRejectionRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	rejection := models.ProjectRejection{ProjectID: project.ID, UserID: current.ID, Note: body.Note}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rejection).Error; err != nil {
			return dbError("Failed to record rejection", err)
		}
		if err := attachFiles(tx, models.ProjectRejectionFiles, rejection.ID, body.FileIDs); err != nil {
			return err
		}
		if err := tx.Model(&project).Update("status", models.ProjectStatusRejected).Error; err != nil {
			return apperr.Internal("Failed to update project status", err)
		}
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if rejection.Files, err = linkedFiles(db.DB, models.ProjectRejectionFiles, rejection.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Project rejected", rejection)
}

func ListRejections(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	rejections := []models.ProjectRejection{}

	if err := db.DB.Where("project_id = ?", project.ID).Order("id").Find(&rejections).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve rejections", err))
		return
	}

	ids := make([]uint, len(rejections))
	for i := range rejections {
		ids[i] = rejections[i].ID
	}

	files, err := models.ProjectRejectionFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range rejections {
		rejections[i].Files = ownedFiles(files, rejections[i].ID)
	}

	respond(ctx, http.StatusOK, "Rejections", rejections)
}

func GetRejection(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var rejection models.ProjectRejection

	if err := lookup(db.DB, &rejection, id, "Rejection not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if rejection.Files, err = linkedFiles(db.DB, models.ProjectRejectionFiles, rejection.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Rejection", rejection)
}
