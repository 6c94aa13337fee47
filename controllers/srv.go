// controllers/srv.go
package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"olilab/app"
	"olilab/inventory"
	"olilab/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Sessions 控制器用到的会话操作；生产环境是 *session.AppSessionStore
type Sessions interface {
	app.SessionReader
	Create(ctx context.Context, userID string) (string, error)
	RevokeAllForUser(ctx context.Context, userID string) error
	TTL() time.Duration
}

var _ Sessions = (*session.AppSessionStore)(nil)

type Srv struct {
	Engine    *inventory.Engine
	Sess      Sessions
	WebOrigin string
	Log       zerolog.Logger
}

func GetSrv(a *app.App) *Srv {
	return NewSrv(a.Engine, a.Sessions, a.Config.WebOrigin, a.Log)
}

func NewSrv(engine *inventory.Engine, sess Sessions, webOrigin string, log zerolog.Logger) *Srv {
	return &Srv{Engine: engine, Sess: sess, WebOrigin: webOrigin, Log: log}
}

// --- helpers ---

// statusFor 错误类别 → HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInvalidState),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrConflict),
		errors.Is(err, inventory.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	body := app.H{"error": err.Error()}
	var dup *inventory.DuplicateError
	if errors.As(err, &dup) {
		body["field"] = dup.Field
	}
	c.JSON(statusFor(err), body)
}

// bindOptional 请求体可以为空；有内容但不是合法 JSON 时直接 400
func bindOptional(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return false
	}
	return true
}

func actorID(c *gin.Context) string { return c.GetString(app.CtxUserID) }

// exec 以当前登录用户执行命令
func (s *Srv) exec(c *gin.Context, cmd inventory.Command) (inventory.Outcome, bool) {
	_, out, err := s.Engine.Execute(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return inventory.Outcome{}, false
	}
	return out, true
}

// 统一设置业务会话 Cookie；maxAge < 0 表示删除
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	age := int(maxAge / time.Second)
	if maxAge < 0 {
		age = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   age,
	})
}
