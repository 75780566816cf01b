package context

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontoamd/ponto-server/internal/model"
)

// Keys used to store and retrieve the authenticated identity in the
// request context.
const (
	userIDKey = "user_id"
	roleKey   = "user_role"
)

// Manager reads and writes the authenticated identity on a request
// context. Handlers go through it instead of touching context keys
// directly.
type Manager struct{}

// NewManager creates a new identity context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentity stores the authenticated user's ID and role on the
// request context.
func (m *Manager) SetIdentity(c *gin.Context, userID uuid.UUID, role model.Role) {
	c.Set(userIDKey, userID)
	c.Set(roleKey, role)
}

// UserID retrieves the authenticated user's ID from the request
// context. The boolean is false when no identity was set.
func (m *Manager) UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// Role retrieves the authenticated user's role from the request
// context. The boolean is false when no identity was set.
func (m *Manager) Role(c *gin.Context) (model.Role, bool) {
	v, ok := c.Get(roleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(model.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}
