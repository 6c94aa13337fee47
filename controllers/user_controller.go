package controllers

import (
	"net/http"
	"strings"

	"olilab/app"
	"olilab/inventory"
	"olilab/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?status=PENDING&q=alice  仅管理员
func (uc *UserController) ListUsers(c *gin.Context) {
	status := models.UserStatus(strings.ToUpper(c.Query("status")))
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))

	st := uc.Engine.Snapshot()
	users := make([]models.User, 0, len(st.Users))
	for _, u := range st.Users {
		if status != "" && u.Status != status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Username), q) && !strings.Contains(strings.ToLower(u.FullName), q) {
			continue
		}
		users = append(users, u.Public())
	}
	c.JSON(http.StatusOK, app.H{"total": len(users), "users": users})
}

// GET /api/users/:id  本人或管理员
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id != actorID(c) && !c.GetBool(app.CtxIsAdmin) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	u, ok := uc.Engine.User(id)
	if !ok {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u.Public()})
}

// PUT /api/users/:id  权限在命令层判断
func (uc *UserController) EditUser(c *gin.Context) {
	var in inventory.UserPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, ok := uc.exec(c, inventory.EditUser{Actor: actorID(c), ID: c.Param("id"), Patch: in}); !ok {
		return
	}
	u, _ := uc.Engine.User(c.Param("id"))
	c.JSON(http.StatusOK, app.H{"user": u.Public()})
}

// POST /api/users/:id/approve
func (uc *UserController) ApproveUser(c *gin.Context) {
	if _, ok := uc.exec(c, inventory.ApproveUser{Actor: actorID(c), ID: c.Param("id")}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/users/:id/deny
func (uc *UserController) DenyUser(c *gin.Context) {
	if _, ok := uc.exec(c, inventory.DenyUser{Actor: actorID(c), ID: c.Param("id")}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	// 不允许删除自己，避免锁死
	if id == actorID(c) {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}
	if _, ok := uc.exec(c, inventory.DeleteUser{Actor: actorID(c), ID: id}); !ok {
		return
	}
	// 撤销该用户的所有登录会话
	if err := uc.Sess.RevokeAllForUser(c.Request.Context(), id); err != nil {
		uc.Log.Warn().Err(err).Str("user", id).Msg("revoke sessions")
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
