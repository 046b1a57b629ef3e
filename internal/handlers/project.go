package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/types"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name               string `json:"name" binding:"required,max=100"`
	ProjectID          string `json:"project_id" binding:"max=50"`
	ReceivedDate       string `json:"received_date" binding:"required"`
	ClientName         string `json:"client_name" binding:"max=100"`
	ClientCompany      string `json:"client_company" binding:"max=100"`
	Location           string `json:"location" binding:"max=100"`
	ProjectType        string `json:"project_type" binding:"max=50"`
	Priority           string `json:"priority" binding:"max=20"`
	ContactPerson      string `json:"contact_person" binding:"max=100"`
	ContactPersonPhone string `json:"contact_person_phone" binding:"max=15"`
	ContactPersonEmail string `json:"contact_person_email" binding:"omitempty,email"`
	Notes              string `json:"notes"`
	Status             string `json:"status" binding:"omitempty,oneof=draft under_review approved rejected completed"`
	SendToEstimation   bool   `json:"send_to_estimation"`
	SendToCoordinator  bool   `json:"send_to_coordinator"`
	CoordinatorID      *uint  `json:"coordinator_id"`
	FileIDs            []uint `json:"file_ids"`
}

type UpdateProjectRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=100"`
	ProjectID          *string `json:"project_id" binding:"omitempty,min=1,max=50"`
	ReceivedDate       *string `json:"received_date"`
	ClientName         *string `json:"client_name" binding:"omitempty,max=100"`
	ClientCompany      *string `json:"client_company" binding:"omitempty,max=100"`
	Location           *string `json:"location" binding:"omitempty,max=100"`
	ProjectType        *string `json:"project_type" binding:"omitempty,max=50"`
	Priority           *string `json:"priority" binding:"omitempty,max=20"`
	ContactPerson      *string `json:"contact_person" binding:"omitempty,max=100"`
	ContactPersonPhone *string `json:"contact_person_phone" binding:"omitempty,max=15"`
	ContactPersonEmail *string `json:"contact_person_email" binding:"omitempty,email"`
	Notes              *string `json:"notes"`
	Status             *string `json:"status" binding:"omitempty,oneof=draft under_review approved rejected completed"`
	SendToEstimation   *bool   `json:"send_to_estimation"`
	SendToCoordinator  *bool   `json:"send_to_coordinator"`
	CoordinatorID      *uint   `json:"coordinator_id"`
	FileIDs            *[]uint `json:"file_ids"`
}

// searchColumns are matched by the q parameter of the project list.
var searchColumns = []string{"name", "client_name", "client_company", "location", "project_type"}

func generateProjectCode() string {
	return fmt.Sprintf("PRJ-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:8]))
}

// findProject loads the project named by the route parameter.
func findProject(ctx *gin.Context, param string) (models.Project, error) {
	var project models.Project

	id, err := idParam(ctx, param)
	if err != nil {
		return project, err
	}

	err = lookup(db.DB, &project, id, "Project not found")
	return project, err
}

func ensureUniqueCode(tx *gorm.DB, code string, exceptID uint) error {
	var count int64

	query := tx.Model(&models.Project{}).Where("project_id = ?", code)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Count(&count).Error; err != nil {
		return apperr.Internal("Failed to check project id", err)
	}
	if count > 0 {
		return apperr.Conflict("Project id already exists: " + code)
	}
	return nil
}

func loadProjectFiles(tx *gorm.DB, projects []models.Project) error {
	ids := make([]uint, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	byOwner, err := models.ProjectFiles.FilesFor(tx, ids)
	if err != nil {
		return apperr.Internal("Failed to load project files", err)
	}

	for i := range projects {
		projects[i].Files = ownedFiles(byOwner, projects[i].ID)
	}
	return nil
}

func CreateProject(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateProjectRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	received, err := utils.ParseDate(body.ReceivedDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("received_date: "+err.Error()))
		return
	}

	code := strings.TrimSpace(body.ProjectID)
	if code == "" {
		code = generateProjectCode()
	}

	status := body.Status
	if status == "" {
		status = models.ProjectStatusDraft
	}

	project := models.Project{
		UserID:             current.ID,
		Name:               body.Name,
		Code:               code,
		ReceivedDate:       received,
		ClientName:         body.ClientName,
		ClientCompany:      body.ClientCompany,
		Location:           body.Location,
		ProjectType:        body.ProjectType,
		Priority:           body.Priority,
		ContactPerson:      body.ContactPerson,
		ContactPersonPhone: body.ContactPersonPhone,
		ContactPersonEmail: body.ContactPersonEmail,
		Notes:              body.Notes,
		Status:             status,
		SendToEstimation:   body.SendToEstimation,
		SendToCoordinator:  body.SendToCoordinator,
	}
	assignRef(&project.CoordinatorID, body.CoordinatorID)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, project.CoordinatorID, "coordinator"); err != nil {
			return err
		}
		if err := ensureUniqueCode(tx, project.Code, 0); err != nil {
			return err
		}
		if err := tx.Create(&project).Error; err != nil {
			return dbError("Failed to create project", err)
		}
		return attachFiles(tx, models.ProjectFiles, project.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if project.Files, err = linkedFiles(db.DB, models.ProjectFiles, project.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Project created", project)
}

// ListProjects pages through projects, newest first.
func ListProjects(ctx *gin.Context) {
	page, size := utils.GetPagination(ctx)

	query := db.DB.Model(&models.Project{})

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, column := range searchColumns {
			clauses[i] = "LOWER(" + column + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	for _, flag := range []string{"send_to_estimation", "send_to_coordinator"} {
		raw := ctx.Query(flag)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(ctx, apperr.Invalid("Invalid "+flag))
			return
		}
		query = query.Where(flag+" = ?", value)
	}

	if raw := ctx.Query("coordinator_id"); raw != "" {
		coordinator, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(ctx, apperr.Invalid("Invalid coordinator_id"))
			return
		}
		query = query.Where("coordinator_id = ?", coordinator)
	}

	query = query.Session(&gorm.Session{})

	var total int64

	if err := query.Count(&total).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to count projects", err))
		return
	}

	projects := []models.Project{}

	if err := query.Order("created_at DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&projects).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve projects", err))
		return
	}

	if err := loadProjectFiles(db.DB, projects); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Projects", types.Page{Items: projects, Total: total, Page: page, Size: size})
}

func GetProject(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if project.Files, err = linkedFiles(db.DB, models.ProjectFiles, project.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Project", project)
}

// UpdateProject applies whichever fields are present. Status may be set to
// any value and the routing flags move independently of it.
func UpdateProject(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateProjectRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignDate(&project.ReceivedDate, body.ReceivedDate, "received_date"); err != nil {
		respondError(ctx, err)
		return
	}

	assign(&project.Name, body.Name)
	assign(&project.Code, body.ProjectID)
	assign(&project.ClientName, body.ClientName)
	assign(&project.ClientCompany, body.ClientCompany)
	assign(&project.Location, body.Location)
	assign(&project.ProjectType, body.ProjectType)
	assign(&project.Priority, body.Priority)
	assign(&project.ContactPerson, body.ContactPerson)
	assign(&project.ContactPersonPhone, body.ContactPersonPhone)
	assign(&project.ContactPersonEmail, body.ContactPersonEmail)
	assign(&project.Notes, body.Notes)
	assign(&project.Status, body.Status)
	assign(&project.SendToEstimation, body.SendToEstimation)
	assign(&project.SendToCoordinator, body.SendToCoordinator)
	assignRef(&project.CoordinatorID, body.CoordinatorID)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, project.CoordinatorID, "coordinator"); err != nil {
			return err
		}
		if err := ensureUniqueCode(tx, project.Code, project.ID); err != nil {
			return err
		}
		if err := tx.Save(&project).Error; err != nil {
			return dbError("Failed to update project", err)
		}
		return replaceFiles(tx, models.ProjectFiles, project.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if project.Files, err = linkedFiles(db.DB, models.ProjectFiles, project.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Project updated", project)
}

// DeleteProject removes the project; every child record goes with it.
func DeleteProject(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&project).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete project", err))
		return
	}

	respond(ctx, http.StatusOK, "Project deleted", nil)
}
