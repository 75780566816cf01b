package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apictx "github.com/pontoamd/ponto-server/internal/api/http/context"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/model"
)

// TokenParser resolves user identity from access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (uuid.UUID, model.Role, error)
}

// Authenticate validates bearer tokens and injects the caller's
// identity into the request context.
type Authenticate struct {
	tokens         TokenParser
	contextManager *apictx.Manager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager *apictx.Manager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, validates the token and
// stores the identity for downstream handlers.
func (m *Authenticate) Handle(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	userID, role, err := m.tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil || userID == uuid.Nil {
		m.logger.Debug("rejected access token", "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
		return
	}

	m.contextManager.SetIdentity(c, userID, role)
	c.Next()
}

// AdminOnly rejects callers whose access token does not carry the
// admin role. It must run after Handle.
func (m *Authenticate) AdminOnly(c *gin.Context) {
	role, ok := m.contextManager.Role(c)
	if !ok || role != model.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	c.Next()
}
