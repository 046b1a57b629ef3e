package models

type Role string

const (
	RoleAdmin              Role = "admin"
	RoleRFQ                Role = "rfq"
	RoleEstimation         Role = "estimation"
	RolePM                 Role = "pm"
	RoleWorking            Role = "working"
	RoleDocumentation      Role = "documentation"
	RoleProjectCoordinator Role = "project_coordinator"
	RoleProjectLeader      Role = "project_leader"
)

var Roles = []Role{
	RoleAdmin,
	RoleRFQ,
	RoleEstimation,
	RolePM,
	RoleWorking,
	RoleDocumentation,
	RoleProjectCoordinator,
	RoleProjectLeader,
}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Name         string `gorm:"size:100" json:"name"`
	Email        string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Phone        string `gorm:"size:15" json:"phone"`
	Role         Role   `gorm:"size:50;not null" json:"role"`
	Active       bool   `gorm:"not null" json:"is_active"`
	PasswordHash string `gorm:"not null" json:"-"`
}
