package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
)

// MaxUploadBytes caps a single uploaded file.
var MaxUploadBytes int64 = 25 << 20

// maxLabelRunes matches the label column width, which counts characters.
const maxLabelRunes = 100

var fileStatuses = []string{
	models.FileStatusDraft,
	models.FileStatusUnderReview,
	models.FileStatusApproved,
	models.FileStatusRejected,
}

type UpdateFileRequest struct {
	Label  *string `json:"label" binding:"omitempty,min=1,max=100"`
	Status *string `json:"status" binding:"omitempty,oneof=draft under_review approved rejected"`
}

// truncateRunes cuts s to at most max runes without splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func validFileStatus(status string) bool {
	for _, s := range fileStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UploadFile stores a multipart "file" part and registers it.
func UploadFile(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	header, err := ctx.FormFile("file")

	if err != nil {
		respondError(ctx, apperr.Invalid("file is required"))
		return
	}

	if header.Size > MaxUploadBytes {
		respondError(ctx, apperr.Invalid(fmt.Sprintf("File exceeds the %d byte limit", MaxUploadBytes)))
		return
	}

	label := strings.TrimSpace(ctx.PostForm("label"))
	if label == "" {
		label = header.Filename
	}
	label = truncateRunes(label, maxLabelRunes)

	status := ctx.DefaultPostForm("status", models.FileStatusUnderReview)
	if !validFileStatus(status) {
		respondError(ctx, apperr.Invalid("Invalid file status: "+status))
		return
	}

	storage := services.CurrentStorage()
	if storage == nil {
		respondError(ctx, apperr.Internal("File storage is not configured", nil))
		return
	}

	src, err := header.Open()

	if err != nil {
		respondError(ctx, apperr.Invalid("Failed to read upload"))
		return
	}
	defer src.Close()

	ref, size, err := storage.Save(services.FolderForRole(string(current.Role)), header.Filename, src)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to store file", err))
		return
	}

	file := models.UploadedFile{
		Label:        label,
		File:         ref,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         size,
		UploadedByID: current.ID,
		Status:       status,
	}

	if err := db.DB.Create(&file).Error; err != nil {
		if delErr := storage.Delete(ref); delErr != nil {
			log.Printf("Failed to remove orphaned upload %s: %v", ref, delErr)
		}
		respondError(ctx, dbError("Failed to register file", err))
		return
	}

	respond(ctx, http.StatusCreated, "File uploaded", file)
}

// ListFiles filters by uploader, status and the uploader's role.
func ListFiles(ctx *gin.Context) {
	query := db.DB.Order("id")

	if raw := ctx.Query("uploaded_by"); raw != "" {
		uploader, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(ctx, apperr.Invalid("Invalid uploaded_by"))
			return
		}
		query = query.Where("uploaded_by_id = ?", uploader)
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if role := ctx.Query("role"); role != "" {
		if !models.Role(role).Valid() {
			respondError(ctx, apperr.Invalid("Invalid role: "+role))
			return
		}
		uploaders := db.DB.Model(&models.User{}).Select("id").Where("role = ?", role)
		query = query.Where("uploaded_by_id IN (?)", uploaders)
	}

	files := []models.UploadedFile{}

	if err := query.Find(&files).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve files", err))
		return
	}

	respond(ctx, http.StatusOK, "Files", files)
}

func GetFile(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var file models.UploadedFile

	if err := lookup(db.DB, &file, id, "File not found"); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "File", file)
}

func UpdateFile(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var file models.UploadedFile

	if err := lookup(db.DB, &file, id, "File not found"); err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateFileRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if body.Label != nil {
		file.Label = *body.Label
	}
	if body.Status != nil {
		file.Status = *body.Status
	}

	if err := db.DB.Save(&file).Error; err != nil {
		respondError(ctx, dbError("Failed to update file", err))
		return
	}

	respond(ctx, http.StatusOK, "File updated", file)
}

// DeleteFile removes the record, its attachment links and the stored blob.
func DeleteFile(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var file models.UploadedFile

	if err := lookup(db.DB, &file, id, "File not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&file).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete file", err))
		return
	}

	if storage := services.CurrentStorage(); storage != nil {
		if err := storage.Delete(file.File); err != nil {
			log.Printf("Failed to remove stored file %s: %v", file.File, err)
		}
	}

	respond(ctx, http.StatusOK, "File deleted", nil)
}
