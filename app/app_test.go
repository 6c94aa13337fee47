package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olilab/inventory"
	"olilab/models"
	"olilab/session"
)

type stubSessions map[string]string

func (s stubSessions) Get(_ context.Context, id string) (*session.AppSession, error) {
	uid, ok := s[id]
	if !ok {
		return nil, session.ErrNoSession
	}
	return &session.AppSession{UserID: uid}, nil
}

func (s stubSessions) Delete(_ context.Context, id string) error {
	delete(s, id)
	return nil
}

type stubUsers map[string]models.User

func (s stubUsers) User(id string) (models.User, bool) {
	u, ok := s[id]
	return u, ok
}

func newRouter(sessions SessionReader, users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(sessions, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, H{"id": c.GetString(CtxUserID), "admin": c.GetBool(CtxIsAdmin)})
	})
	r.GET("/admin", AuthRequired(sessions, users), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: AppSessionCookie, Value: sid})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	sessions := stubSessions{"s-admin": "adm", "s-member": "u1", "s-pending": "u2", "s-gone": "ghost"}
	users := stubUsers{
		"adm": {ID: "adm", IsAdmin: true, Status: models.UserApproved},
		"u1":  {ID: "u1", Status: models.UserApproved},
		"u2":  {ID: "u2", Status: models.UserPending},
	}
	r := newRouter(sessions, users)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "bogus").Code)

	rec := get(r, "/me", "s-member")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u1","admin":false}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "s-member").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", "s-admin").Code)

	// 已删除或未批准的用户，会话同时被清理
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "s-gone").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "s-pending").Code)
	assert.NotContains(t, sessions, "s-gone")
	assert.NotContains(t, sessions, "s-pending")
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	get(r, "/missing", "")
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"status":404`)
}

func TestCheckAdmins(t *testing.T) {
	seed, err := inventory.Seed(inventory.DefaultEnv())
	require.NoError(t, err)

	var buf bytes.Buffer
	CheckAdmins(seed, zerolog.New(&buf))
	assert.Contains(t, buf.String(), "seed password")

	buf.Reset()
	seed.Users[0].Status = models.UserDenied
	CheckAdmins(seed, zerolog.New(&buf))
	assert.Contains(t, buf.String(), "no approved admin")
}

func TestUseCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	useCORS(r, "http://localhost:5173, https://lab.school.ph")
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://lab.school.ph")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "https://lab.school.ph", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
