package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pontoamd/ponto-server/internal/model"
	"github.com/pontoamd/ponto-server/internal/service"
	"github.com/pontoamd/ponto-server/internal/testutil"
)

func newAuthRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuth(svc, testutil.MakeNoopLogger())

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Register(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Register", mock.Anything, "12345678900", "secret1", "Maria Silva", model.RoleEmployee).
		Return(model.User{ID: uuid.New(), Handle: "12345678900", DisplayName: "Maria Silva", Role: model.RoleEmployee}, nil)

	r := newAuthRouter(svc)
	w := postJSON(r, "/register", `{"handle":"12345678900","password":"secret1","displayName":"Maria Silva","role":"EMPLOYEE"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "12345678900")
	assert.NotContains(t, w.Body.String(), "secret1")
}

func TestAuth_RegisterValidation(t *testing.T) {
	r := newAuthRouter(&MockAuthService{})

	// Password shorter than six characters fails binding.
	w := postJSON(r, "/register", `{"handle":"12345678900","password":"abc","displayName":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{}, model.ErrDuplicateHandle)

	r := newAuthRouter(svc)
	w := postJSON(r, "/register", `{"handle":"12345678900","password":"secret1","displayName":"Maria Silva"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_Login(t *testing.T) {
	user := model.User{ID: uuid.New(), Handle: "12345678900", Role: model.RoleAdmin}

	svc := &MockAuthService{}
	svc.On("Login", mock.Anything, "12345678900", "secret1").
		Return(user, service.TokenPair{Access: "access-token", Refresh: "refresh-token"}, nil)

	r := newAuthRouter(svc)
	w := postJSON(r, "/login", `{"handle":"12345678900","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access-token")
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{}, service.TokenPair{}, model.ErrInvalidCredentials)

	r := newAuthRouter(svc)
	w := postJSON(r, "/login", `{"handle":"12345678900","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_Refresh(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Refresh", mock.Anything, "refresh-token").
		Return(service.TokenPair{Access: "new-access", Refresh: "new-refresh"}, nil)

	r := newAuthRouter(svc)
	w := postJSON(r, "/refresh", `{"refreshToken":"refresh-token"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}
