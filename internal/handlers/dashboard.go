package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
)

// WorkCards summarises projects whose estimation has reached a PM.
type WorkCards struct {
	TotalProjects  int64 `json:"total_projects"`
	CompletedWorks int64 `json:"completed_works"`
	PendingWorks   int64 `json:"pending_works"`
}

type RFQCards struct {
	ActiveProjects     int64 `json:"active_projects"`
	ReadyForEstimation int64 `json:"ready_for_estimation"`
}

type EstimationCards struct {
	ActiveEstimation     int64   `json:"active_estimation"`
	PendingEstimations   int64   `json:"pending_estimations"`
	CompletedEstimations int64   `json:"completed_estimations"`
	TotalValue           float64 `json:"total_value"`
}

type TaskCards struct {
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
}

// DashboardCards returns the headline counts for the caller's role.
func DashboardCards(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var cards interface{}

	switch current.Role {
	case models.RoleAdmin:
		cards, err = workCards(db.DB, 0)
	case models.RolePM:
		cards, err = workCards(db.DB, current.ID)
	case models.RoleRFQ:
		cards, err = rfqCards(db.DB)
	case models.RoleEstimation:
		cards, err = estimationCards(db.DB)
	default:
		cards, err = taskCards(db.DB, current.ID)
	}

	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Dashboard", cards)
}

// workCards counts projects with an estimation sent to a PM. A non-zero
// pmID narrows it to estimations forwarded to that user.
func workCards(tx *gorm.DB, pmID uint) (WorkCards, error) {
	var cards WorkCards

	sent := tx.Model(&models.Estimation{}).Select("project_id").Where("sent_to_pm = ?", true)
	if pmID != 0 {
		sent = sent.Where("forward_to_id = ?", pmID)
	}

	projects := tx.Model(&models.Project{}).Where("id IN (?)", sent).Session(&gorm.Session{})

	if err := projects.Count(&cards.TotalProjects).Error; err != nil {
		return cards, apperr.Internal("Failed to count projects", err)
	}
	if err := projects.Where("status = ?", models.ProjectStatusCompleted).Count(&cards.CompletedWorks).Error; err != nil {
		return cards, apperr.Internal("Failed to count projects", err)
	}

	cards.PendingWorks = cards.TotalProjects - cards.CompletedWorks
	return cards, nil
}

func rfqCards(tx *gorm.DB) (RFQCards, error) {
	var cards RFQCards

	projects := tx.Model(&models.Project{}).Session(&gorm.Session{})

	if err := projects.Where("send_to_estimation = ?", true).Count(&cards.ActiveProjects).Error; err != nil {
		return cards, apperr.Internal("Failed to count projects", err)
	}
	if err := projects.Where("send_to_estimation = ?", false).Count(&cards.ReadyForEstimation).Error; err != nil {
		return cards, apperr.Internal("Failed to count projects", err)
	}
	return cards, nil
}

func estimationCards(tx *gorm.DB) (EstimationCards, error) {
	var cards EstimationCards

	if err := tx.Model(&models.Project{}).Where("send_to_estimation = ?", true).Count(&cards.ActiveEstimation).Error; err != nil {
		return cards, apperr.Internal("Failed to count projects", err)
	}

	estimations := tx.Model(&models.Estimation{}).Session(&gorm.Session{})

	if err := estimations.Where("status <> ?", models.EstimationStatusApproved).Count(&cards.PendingEstimations).Error; err != nil {
		return cards, apperr.Internal("Failed to count estimations", err)
	}
	if err := estimations.Where("status = ?", models.EstimationStatusApproved).Count(&cards.CompletedEstimations).Error; err != nil {
		return cards, apperr.Internal("Failed to count estimations", err)
	}
	if err := estimations.Select("COALESCE(SUM(cost), 0)").Scan(&cards.TotalValue).Error; err != nil {
		return cards, apperr.Internal("Failed to total estimations", err)
	}
	return cards, nil
}

func taskCards(tx *gorm.DB, userID uint) (TaskCards, error) {
	var cards TaskCards

	tasks := assignedTo(tx, userID).Session(&gorm.Session{})

	if err := tasks.Count(&cards.TotalTasks).Error; err != nil {
		return cards, apperr.Internal("Failed to count tasks", err)
	}
	if err := tasks.Where("status = ?", models.TaskStatusCompleted).Count(&cards.CompletedTasks).Error; err != nil {
		return cards, apperr.Internal("Failed to count tasks", err)
	}

	cards.PendingTasks = cards.TotalTasks - cards.CompletedTasks
	return cards, nil
}
