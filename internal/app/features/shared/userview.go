package shared

import (
	"time"

	"github.com/openreuse/donatehub/internal/domain/models"
)

// UserView is the client-facing shape of an account. Passwords never
// leave the server, so the stored model is not serialized directly.
type UserView struct {
	ID                  int         `json:"id"`
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Role                models.Role `json:"role"`
	Verified            bool        `json:"verified"`
	OrganizationName    string      `json:"organizationName,omitempty"`
	OrganizationAddress string      `json:"organizationAddress,omitempty"`
	OrganizationPhone   string      `json:"organizationPhone,omitempty"`
	CreatedAt           string      `json:"createdAt"`
}

// NewUserView maps a stored user to its client-facing shape.
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		Verified:            u.Verified,
		OrganizationName:    u.OrganizationName,
		OrganizationAddress: u.OrganizationAddress,
		OrganizationPhone:   u.OrganizationPhone,
		CreatedAt:           u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
