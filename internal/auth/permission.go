package auth

import (
	"errors"

	"github.com/projectdesk/projectdesk/internal/models"
)

// Action names an operation guarded by a role check.
type Action string

const (
	ActionCreateAccount Action = "accounts.create"
	ActionUpdateAccount Action = "accounts.update"
	ActionDeleteAccount Action = "accounts.delete"
	ActionListAccounts  Action = "accounts.list"
	ActionAccountStatus Action = "accounts.status"
)

var ErrForbidden = errors.New("forbidden")

var capabilities = map[Action][]models.Role{
	ActionCreateAccount: {models.RoleAdmin},
	ActionUpdateAccount: {models.RoleAdmin},
	ActionDeleteAccount: {models.RoleAdmin},
	ActionListAccounts:  {models.RoleAdmin},
	ActionAccountStatus: {models.RoleAdmin},
}

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role models.Role, action Action) bool {
	for _, allowed := range capabilities[action] {
		if role == allowed {
			return true
		}
	}
	return false
}

func Authorize(role models.Role, action Action) error {
	if !Can(role, action) {
		return ErrForbidden
	}
	return nil
}
