package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
)

type CreateTimeLineRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
	Completed   bool    `json:"completed"`
}

type UpdateTimeLineRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Completed   *bool   `json:"completed"`
}

func CreateTimeLine(ctx *gin.Context) {
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

	var body CreateTimeLineRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	start, err := utils.ParseDate(body.StartDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("start_date: "+err.Error()))
		return
	}

	end, err := utils.ParseOptionalDate(body.EndDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("end_date: "+err.Error()))
		return
	}

	timeline := models.ProjectTimeLine{
		ProjectID:   project.ID,
		UserID:      current.ID,
		Title:       body.Title,
		Description: body.Description,
		StartDate:   start,
		EndDate:     end,
		Completed:   body.Completed,
	}

	if err := db.DB.Create(&timeline).Error; err != nil {
		respondError(ctx, dbError("Failed to create timeline", err))
		return
	}

	respond(ctx, http.StatusCreated, "Timeline created", timeline)
}

// ListTimeLines returns the project's milestones in start date order.
func ListTimeLines(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	timelines := []models.ProjectTimeLine{}

	if err := db.DB.Where("project_id = ?", project.ID).Order("start_date, id").Find(&timelines).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve timelines", err))
		return
	}

	respond(ctx, http.StatusOK, "Timelines", timelines)
}

func UpdateTimeLine(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var timeline models.ProjectTimeLine

	if err := lookup(db.DB, &timeline, id, "Timeline not found"); err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateTimeLineRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignDate(&timeline.StartDate, body.StartDate, "start_date"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignOptionalDate(&timeline.EndDate, body.EndDate, "end_date"); err != nil {
		respondError(ctx, err)
		return
	}

	assign(&timeline.Title, body.Title)
	assign(&timeline.Description, body.Description)
	assign(&timeline.Completed, body.Completed)

	if err := db.DB.Save(&timeline).Error; err != nil {
		respondError(ctx, dbError("Failed to update timeline", err))
		return
	}

	respond(ctx, http.StatusOK, "Timeline updated", timeline)
}

func DeleteTimeLine(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var timeline models.ProjectTimeLine

	if err := lookup(db.DB, &timeline, id, "Timeline not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&timeline).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete timeline", err))
		return
	}

	respond(ctx, http.StatusOK, "Timeline deleted", nil)
}
