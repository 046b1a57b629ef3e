package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/apperr"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTeamRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
	MemberIDs   []uint `json:"member_ids"`
}

type UpdateTeamRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	MemberIDs   *[]uint `json:"member_ids"`
}

type teamMemberRow struct {
	models.User
	MemberTeamID uint
}

func checkUsers(tx *gorm.DB, ids []uint) error {
	seen := map[uint]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if len(seen) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperr.Internal("Failed to check members", err)
	}
	if int(count) != len(seen) {
		return apperr.Invalid("Unknown member ids")
	}
	return nil
}

func replaceMembers(tx *gorm.DB, teamID uint, userIDs []uint) error {
	if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
		return err
	}

	seen := map[uint]bool{}
	members := make([]models.TeamMember, 0, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, models.TeamMember{TeamID: teamID, UserID: id})
	}

	if len(members) == 0 {
		return nil
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
}

// loadMembers fills in the member list of every team in place.
func loadMembers(tx *gorm.DB, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	ids := make([]uint, len(teams))
	for i := range teams {
		ids[i] = teams[i].ID
		teams[i].Members = []models.User{}
	}

	var rows []teamMemberRow
	err := tx.Table("users").
		Select("users.*, team_members.team_id AS member_team_id").
		Joins("JOIN team_members ON team_members.user_id = users.id").
		Where("team_members.team_id IN ?", ids).
		Order("users.id").
		Find(&rows).Error
	if err != nil {
		return err
	}

	byTeam := make(map[uint][]models.User, len(teams))
	for _, row := range rows {
		byTeam[row.MemberTeamID] = append(byTeam[row.MemberTeamID], row.User)
	}

	for i := range teams {
		if members, ok := byTeam[teams[i].ID]; ok {
			teams[i].Members = members
		}
	}

	return nil
}

func CreateTeam(ctx *gin.Context) {
	var body CreateTeamRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	team := models.Team{Title: body.Title, Description: body.Description}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkUsers(tx, body.MemberIDs); err != nil {
			return err
		}
		if err := tx.Create(&team).Error; err != nil {
			return dbError("Failed to create team", err)
		}
		if err := replaceMembers(tx, team.ID, body.MemberIDs); err != nil {
			return dbError("Failed to add team members", err)
		}
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	teams := []models.Team{team}

	if err := loadMembers(db.DB, teams); err != nil {
		respondError(ctx, apperr.Internal("Failed to load team members", err))
		return
	}

	respond(ctx, http.StatusCreated, "Team created", teams[0])
}

func ListTeams(ctx *gin.Context) {
	teams := []models.Team{}

	if err := db.DB.Order("id").Find(&teams).Error; err != nil {
		respondError(ctx, apperr.Internal("Failed to retrieve teams", err))
		return
	}

	if err := loadMembers(db.DB, teams); err != nil {
		respondError(ctx, apperr.Internal("Failed to load team members", err))
		return
	}

	respond(ctx, http.StatusOK, "Teams", teams)
}

func GetTeam(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	teams := make([]models.Team, 1)

	if err := lookup(db.DB, &teams[0], id, "Team not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := loadMembers(db.DB, teams); err != nil {
		respondError(ctx, apperr.Internal("Failed to load team members", err))
		return
	}

	respond(ctx, http.StatusOK, "Team", teams[0])
}

func UpdateTeam(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	teams := make([]models.Team, 1)

	if err := lookup(db.DB, &teams[0], id, "Team not found"); err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateTeamRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	team := &teams[0]

	if body.Title != nil {
		team.Title = *body.Title
	}
	if body.Description != nil {
		team.Description = *body.Description
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(team).Error; err != nil {
			return dbError("Failed to update team", err)
		}
		if body.MemberIDs == nil {
			return nil
		}
		if err := checkUsers(tx, *body.MemberIDs); err != nil {
			return err
		}
		if err := replaceMembers(tx, team.ID, *body.MemberIDs); err != nil {
			return dbError("Failed to update team members", err)
		}
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := loadMembers(db.DB, teams); err != nil {
		respondError(ctx, apperr.Internal("Failed to load team members", err))
		return
	}

	respond(ctx, http.StatusOK, "Team updated", *team)
}

func DeleteTeam(ctx *gin.Context) {
	id, err := idParam(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var team models.Team

	if err := lookup(db.DB, &team, id, "Team not found"); err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&team).Error; err != nil {
		respondError(ctx, apperr.Internal(fmt.Sprintf("Failed to delete team %d", team.ID), err))
		return
	}

	respond(ctx, http.StatusOK, "Team deleted", nil)
}
