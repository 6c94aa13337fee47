package app

import (
	"context"
	"net/http"

	"olilab/models"
	"olilab/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// gin.Context 中的键
const (
	CtxUserID  = "userID"
	CtxIsAdmin = "isAdmin"
)

// SessionReader 中间件只需要读取和清理会话
type SessionReader interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
	Delete(ctx context.Context, id string) error
}

// UserLookup 按 id 查用户，由 inventory.Engine 实现
type UserLookup interface {
	User(id string) (models.User, bool)
}

func AuthRequired(sessions SessionReader, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 用户可能已被删除，或不再是 APPROVED
		u, ok := users.User(as.UserID)
		if !ok || u.Status != models.UserApproved {
			_ = sessions.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, u.ID)
		c.Set(CtxIsAdmin, u.IsAdmin)
		c.Next()
	}
}

// AdminOnly 必须挂在 AuthRequired 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(CtxUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !c.GetBool(CtxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
