package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

type CreateMoreInfoRequest struct {
	Notes   string `json:"notes"`
	Enquiry string `json:"enquiry"`
	FileIDs []uint `json:"file_ids"`
}

type UpdateMoreInfoRequest struct {
	Notes   *string `json:"notes"`
	Enquiry *string `json:"enquiry"`
	FileIDs *[]uint `json:"file_ids"`
}

func CreateMoreInfo(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateMoreInfoRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	info := models.ProjectMoreInfo{ProjectID: project.ID, Notes: body.Notes, Enquiry: body.Enquiry}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&info).Error; err != nil {
			return dbError("Failed to add project information", err)
		}
		return attachFiles(tx, models.ProjectMoreInfoFiles, info.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if info.Files, err = linkedFiles(db.DB, models.ProjectMoreInfoFiles, info.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Project information added", info)
}

func ListMoreInfo(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	infos := []models.ProjectMoreInfo{}

	if err := db.DB.Where("project_id = ?", project.ID).Order("id").Find(&infos).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve project information", err))
		return
	}

	ids := make([]uint, len(infos))
	for i := range infos {
		ids[i] = infos[i].ID
	}

	files, err := models.ProjectMoreInfoFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range infos {
		infos[i].Files = ownedFiles(files, infos[i].ID)
	}

	respond(ctx, http.StatusOK, "Project information", infos)
}

func UpdateMoreInfo(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var info models.ProjectMoreInfo

	if err := lookup(db.DB, &info, id, "Project information not found"); err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateMoreInfoRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	assign(&info.Notes, body.Notes)
	assign(&info.Enquiry, body.Enquiry)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&info).Error; err != nil {
			return dbError("Failed to update project information", err)
		}
		return replaceFiles(tx, models.ProjectMoreInfoFiles, info.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if info.Files, err = linkedFiles(db.DB, models.ProjectMoreInfoFiles, info.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Project information updated", info)
}

func DeleteMoreInfo(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var info models.ProjectMoreInfo

	if err := lookup(db.DB, &info, id, "Project information not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&info).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete project information", err))
		return
	}

	respond(ctx, http.StatusOK, "Project information deleted", nil)
}
