package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title              string   `json:"title" binding:"required,max=100"`
	Description        string   `json:"description"`
	Status             string   `json:"status" binding:"omitempty,oneof=to_do in_progress completed"`
	Priority           string   `json:"priority" binding:"omitempty,oneof=high medium low"`
	StartDate          string   `json:"start_date" binding:"required"`
	DueDate            *string  `json:"due_date"`
	Hours              *float64 `json:"hours" binding:"omitempty,min=0"`
	AssignedTeam       *uint    `json:"assigned_team"`
	AssignedIndividual *uint    `json:"assigned_individual"`
	Completed          bool     `json:"completed"`
	SelectedFileIDs    []uint   `json:"selected_file_ids"`
	FileIDs            []uint   `json:"file_ids"`
}

// UpdateTaskRequest leaves Completed and Status independent; setting one
// never touches the other.
type UpdateTaskRequest struct {
	Title              *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Description        *string  `json:"description"`
	Status             *string  `json:"status" binding:"omitempty,oneof=to_do in_progress completed"`
	Priority           *string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	StartDate          *string  `json:"start_date"`
	DueDate            *string  `json:"due_date"`
	Hours              *float64 `json:"hours" binding:"omitempty,min=0"`
	AssignedTeam       *uint    `json:"assigned_team"`
	AssignedIndividual *uint    `json:"assigned_individual"`
	Completed          *bool    `json:"completed"`
	SelectedFileIDs    *[]uint  `json:"selected_file_ids"`
	FileIDs            *[]uint  `json:"file_ids"`
}

type CreateActivityRequest struct {
	Action  string `json:"action" binding:"required,oneof=start pause re_open complete"`
	Note    string `json:"note"`
	FileIDs []uint `json:"file_ids"`
}

type CreateChatRequest struct {
	Message string `json:"message" binding:"required"`
	FileIDs []uint `json:"file_ids"`
}

func findTask(ctx *gin.Context) (models.Task, error) {
	var task models.Task

	id, err := idParam(ctx, "id")
	if err != nil {
		return task, err
	}

	err = lookup(db.DB, &task, id, "Task not found")
	return task, err
}

func checkAssignees(tx *gorm.DB, task *models.Task) error {
	if err := exists(tx, &models.Team{}, task.AssignedTeamID, "assigned_team"); err != nil {
		return err
	}
	return exists(tx, &models.User{}, task.AssignedIndividualID, "assigned_individual")
}

func loadTaskFiles(tx *gorm.DB, tasks []models.Task) error {
	ids := make([]uint, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	selected, err := models.TaskSelectedFiles.FilesFor(tx, ids)
	if err != nil {
		return apperr.Internal("Failed to load files", err)
	}

	uploaded, err := models.TaskUploadedFiles.FilesFor(tx, ids)
	if err != nil {
		return apperr.Internal("Failed to load files", err)
	}

	for i := range tasks {
		tasks[i].SelectedFiles = ownedFiles(selected, tasks[i].ID)
		tasks[i].UploadedFiles = ownedFiles(uploaded, tasks[i].ID)
	}
	return nil
}

func respondTask(ctx *gin.Context, status int, detail string, task models.Task) {
	tasks := []models.Task{task}

	if err := loadTaskFiles(db.DB, tasks); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, status, detail, tasks[0])
}

func CreateTask(ctx *gin.Context) {
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

	var body CreateTaskRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	start, err := utils.ParseDate(body.StartDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("start_date: "+err.Error()))
		return
	}

	due, err := utils.ParseOptionalDate(body.DueDate)

	if err != nil {
		respondError(ctx, apperr.Invalid("due_date: "+err.Error()))
		return
	}

	status := body.Status
	if status == "" {
		status = models.TaskStatusToDo
	}

	priority := body.Priority
	if priority == "" {
		priority = "medium"
	}

	task := models.Task{
		ProjectID:   project.ID,
		UserID:      current.ID,
		Title:       body.Title,
		Description: body.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   start,
		DueDate:     due,
		Hours:     body.Hours,
		Completed: body.Completed,
	}
	assignRef(&task.AssignedTeamID, body.AssignedTeam)
	assignRef(&task.AssignedIndividualID, body.AssignedIndividual)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkAssignees(tx, &task); err != nil {
			return err
		}
		if err := tx.Create(&task).Error; err != nil {
			return dbError("Failed to create task", err)
		}
		if err := attachFiles(tx, models.TaskSelectedFiles, task.ID, body.SelectedFileIDs); err != nil {
			return err
		}
		return attachFiles(tx, models.TaskUploadedFiles, task.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	respondTask(ctx, http.StatusCreated, "Task created", task)
}

func ListTasks(ctx *gin.Context) {
	project, err := findProject(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	query := db.DB.Where("project_id = ?", project.ID).Order("id")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	for param, column := range map[string]string{
		"assigned_team":       "assigned_team_id",
		"assigned_individual": "assigned_individual_id",
	} {
		raw := ctx.Query(param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(ctx, apperr.Invalid("Invalid "+param))
			return
		}
		query = query.Where(column+" = ?", id)
	}

	tasks := []models.Task{}

	if err := query.Find(&tasks).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve tasks", err))
		return
	}

	if err := loadTaskFiles(db.DB, tasks); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Tasks", tasks)
}

// assignedTo scopes a task query to tasks given to userID directly or
// through one of their teams.
func assignedTo(tx *gorm.DB, userID uint) *gorm.DB {
	teams := tx.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)
	return tx.Model(&models.Task{}).Where("assigned_individual_id = ? OR assigned_team_id IN (?)", userID, teams)
}

// MyTasks lists tasks assigned to the caller directly or through a team.
func MyTasks(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	query := assignedTo(db.DB, current.ID).Order("id")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	tasks := []models.Task{}

	if err := query.Find(&tasks).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve tasks", err))
		return
	}

	if err := loadTaskFiles(db.DB, tasks); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "Tasks", tasks)
}

func GetTask(ctx *gin.Context) {
	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	respondTask(ctx, http.StatusOK, "Task", task)
}

// UpdateTask stores the supplied fields. Writing the current status again
// is allowed and still bumps updated_at.
func UpdateTask(ctx *gin.Context) {
	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateTaskRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignDate(&task.StartDate, body.StartDate, "start_date"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := assignOptionalDate(&task.DueDate, body.DueDate, "due_date"); err != nil {
		respondError(ctx, err)
		return
	}

	if body.Hours != nil {
		hours := *body.Hours
		task.Hours = &hours
	}

	assign(&task.Title, body.Title)
	assign(&task.Description, body.Description)
	assign(&task.Status, body.Status)
	assign(&task.Priority, body.Priority)
	assign(&task.Completed, body.Completed)
	assignRef(&task.AssignedTeamID, body.AssignedTeam)
	assignRef(&task.AssignedIndividualID, body.AssignedIndividual)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkAssignees(tx, &task); err != nil {
			return err
		}
		if err := tx.Save(&task).Error; err != nil {
			return dbError("Failed to update task", err)
		}
		if err := replaceFiles(tx, models.TaskSelectedFiles, task.ID, body.SelectedFileIDs); err != nil {
			return err
		}
		return replaceFiles(tx, models.TaskUploadedFiles, task.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	respondTask(ctx, http.StatusOK, "Task updated", task)
}

func DeleteTask(ctx *gin.Context) {
	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to delete task", err))
		return
	}

	respond(ctx, http.StatusOK, "Task deleted", nil)
}

// CreateActivity appends an entry to the task's activity log. The action is
// recorded as given; the task row is left alone.
func CreateActivity(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateActivityRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	entry := models.TaskActivityLog{
		TaskID: task.ID,
		Action: body.Action,
		UserID: current.ID,
		Note:   body.Note,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return dbError("Failed to record activity", err)
		}
		return attachFiles(tx, models.TaskActivityLogFiles, entry.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if entry.Files, err = linkedFiles(db.DB, models.TaskActivityLogFiles, entry.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Activity recorded", entry)
}

func ListActivity(ctx *gin.Context) {
	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	entries := []models.TaskActivityLog{}

	if err := db.DB.Where("task_id = ?", task.ID).Order("created_at, id").Find(&entries).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve activity", err))
		return
	}

	ids := make([]uint, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}

	files, err := models.TaskActivityLogFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range entries {
		entries[i].Files = ownedFiles(files, entries[i].ID)
	}

	respond(ctx, http.StatusOK, "Activity", entries)
}

func CreateChat(ctx *gin.Context) {
	current, err := currentUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateChatRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	chat := models.TaskChat{TaskID: task.ID, UserID: current.ID, Message: body.Message}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return dbError("Failed to send message", err)
		}
		return attachFiles(tx, models.TaskChatFiles, chat.ID, body.FileIDs)
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if chat.Files, err = linkedFiles(db.DB, models.TaskChatFiles, chat.ID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "Message sent", chat)
}

func ListChat(ctx *gin.Context) {
	task, err := findTask(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	chats := []models.TaskChat{}

	if err := db.DB.Where("task_id = ?", task.ID).Order("created_at, id").Find(&chats).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve messages", err))
		return
	}

	ids := make([]uint, len(chats))
	for i := range chats {
		ids[i] = chats[i].ID
	}

	files, err := models.TaskChatFiles.FilesFor(db.DB, ids)

	if err != nil {
		respondError(ctx, apperr.Internal("Failed to load files", err))
		return
	}

	for i := range chats {
		chats[i].Files = ownedFiles(files, chats[i].ID)
	}

	respond(ctx, http.StatusOK, "Messages", chats)
}
