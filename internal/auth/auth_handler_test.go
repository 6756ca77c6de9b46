package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kpcrmv4/manusdentalos/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthTestRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// minimal error renderer; pkg/middleware imports this package
	router.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			std := errors.FromDomain(c.Errors.Last().Err)
			c.JSON(std.HTTPStatus(), std)
		}
	})
	router.POST("/api/v1/auth/login", handler.Login)
	return router
}

func newTestAuthHandler() *AuthHandler {
	logger := zap.NewNop()
	return NewAuthHandler(NewJWTManager(testSecret, 10*time.Minute, logger), map[string]string{"pharmacist": "secret"}, logger)
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	handler := newTestAuthHandler()
	router := setupAuthTestRouter(handler)

	w := postLogin(router, `{"username":"pharmacist","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, 600, resp.ExpiresIn)

	claims, err := handler.jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "pharmacist", claims.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := setupAuthTestRouter(newTestAuthHandler())

	for _, body := range []string{
		`{"username":"pharmacist","password":"wrong"}`,
		`{"username":"nobody","password":"secret"}`,
	} {
		w := postLogin(router, body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp errors.StandardError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, errors.CodeUnauthorized, resp.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := setupAuthTestRouter(newTestAuthHandler())

	w := postLogin(router, `{"username":"pharmacist"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
