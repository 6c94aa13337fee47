package controllers

import (
	"net/http"

	"olilab/app"
	"olilab/inventory"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/register 自助注册，账号进入 PENDING 等管理员审批
func (ac *AuthController) Register(c *gin.Context) {
	var in inventory.Registration
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	out, ok := ac.exec(c, inventory.RegisterUser{Data: in})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": out.ID, "status": "PENDING"})
}

// POST /api/auth/login  identifier 可以是用户名、邮箱或 LRN
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	st := ac.Engine.Snapshot()
	u, err := inventory.Authenticate(&st, in.Identifier, in.Password)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
			return
		}
		fail(c, err)
		return
	}
	id, err := ac.Sess.Create(c.Request.Context(), u.ID)
	if err != nil {
		ac.Log.Error().Err(err).Str("user", u.ID).Msg("create session")
		c.JSON(http.StatusInternalServerError, app.H{"error": "session error"})
		return
	}
	ac.setAppCookie(c.Writer, id, ac.Sess.TTL())
	c.JSON(http.StatusOK, app.H{"user": u.Public()})
}

// POST /api/auth/logout 删 Redis 会话，Cookie 置空
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.Sess.Delete(c.Request.Context(), ck.Value)
	}
	ac.setAppCookie(c.Writer, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	u, ok := ac.Engine.User(actorID(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u.Public()})
}
