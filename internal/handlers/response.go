package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/types"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

func respond(ctx *gin.Context, status int, detail string, data interface{}) {
	ctx.JSON(status, types.Envelope{
		StatusCode: types.StatusCodeSuccess,
		Detail:     detail,
		Data:       data,
	})
}

func respondError(ctx *gin.Context, err error) {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal {
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.Request.URL.Path, appErr)
	}

	ctx.JSON(appErr.Status(), types.Envelope{
		StatusCode: types.StatusCodeFailure,
		Detail:     appErr.Detail,
	})
}

func bindJSON(ctx *gin.Context, body interface{}) error {
	if err := ctx.ShouldBindJSON(body); err != nil {
		return apperr.Invalid("Invalid request: " + err.Error())
	}
	return nil
}

func currentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		return user, apperr.Unauthenticated("User not authenticated")
	}
	return user, nil
}

func idParam(ctx *gin.Context, name string) (uint, error) {
	id, err := utils.GetIDParam(ctx, name)
	if err != nil {
		return 0, apperr.Invalid(err.Error())
	}
	return id, nil
}

// lookup loads a single row by primary key and classifies the failure.
func lookup(tx *gorm.DB, dest interface{}, id uint, notFound string) error {
	err := tx.First(dest, id).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal("Failed to retrieve record", err)
}

// exists reports an invalid-input error when a referenced row is missing.
func exists(tx *gorm.DB, model interface{}, id *uint, field string) error {
	if id == nil {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", *id).Count(&count).Error; err != nil {
		return apperr.Internal("Failed to check "+field, err)
	}
	if count == 0 {
		return apperr.Invalid(fmt.Sprintf("Unknown %s: %d", field, *id))
	}
	return nil
}

func checkFiles(tx *gorm.DB, fileIDs ...[]uint) error {
	var all []uint
	for _, ids := range fileIDs {
		all = append(all, ids...)
	}

	missing, err := models.MissingFiles(tx, all)
	if err != nil {
		return apperr.Internal("Failed to check files", err)
	}
	if len(missing) > 0 {
		parts := make([]string, len(missing))
		for i, id := range missing {
			parts[i] = fmt.Sprint(id)
		}
		return apperr.Invalid("Unknown file ids: " + strings.Join(parts, ", "))
	}
	return nil
}

func dbError(detail string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(detail + ": duplicate value")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Invalid(detail + ": referenced record does not exist")
	}
	return apperr.Internal(detail, err)
}

// assign copies src into dst when the request carried the field.
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func assignDate(dst *models.Date, src *string, field string) error {
	if src == nil {
		return nil
	}
	d, err := utils.ParseDate(*src)
	if err != nil {
		return apperr.Invalid(field + ": " + err.Error())
	}
	*dst = d
	return nil
}

// assignOptionalDate clears dst when the request sends an empty string.
func assignOptionalDate(dst **models.Date, src *string, field string) error {
	if src == nil {
		return nil
	}
	d, err := utils.ParseOptionalDate(src)
	if err != nil {
		return apperr.Invalid(field + ": " + err.Error())
	}
	*dst = d
	return nil
}

// assignRef treats 0 as a request to clear a nullable reference.
func assignRef(dst **uint, src *uint) {
	if src == nil {
		return
	}
	if *src == 0 {
		*dst = nil
		return
	}
	id := *src
	*dst = &id
}

func attachFiles(tx *gorm.DB, link models.FileLink, ownerID uint, fileIDs []uint) error {
	if err := checkFiles(tx, fileIDs); err != nil {
		return err
	}
	if err := link.Attach(tx, ownerID, fileIDs); err != nil {
		return dbError("Failed to attach files", err)
	}
	return nil
}

func replaceFiles(tx *gorm.DB, link models.FileLink, ownerID uint, fileIDs *[]uint) error {
	if fileIDs == nil {
		return nil
	}
	if err := checkFiles(tx, *fileIDs); err != nil {
		return err
	}
	if err := link.Replace(tx, ownerID, *fileIDs); err != nil {
		return dbError("Failed to attach files", err)
	}
	return nil
}

func linkedFiles(tx *gorm.DB, link models.FileLink, ownerID uint) ([]models.UploadedFile, error) {
	files, err := link.Files(tx, ownerID)
	if err != nil {
		return nil, apperr.Internal("Failed to load files", err)
	}
	if files == nil {
		files = []models.UploadedFile{}
	}
	return files, nil
}

// ownedFiles picks one owner's files out of a FilesFor result. Owners with
// no links get an empty list so they encode as [].
func ownedFiles(byOwner map[uint][]models.UploadedFile, ownerID uint) []models.UploadedFile {
	if files := byOwner[ownerID]; files != nil {
		return files
	}
	return []models.UploadedFile{}
}
