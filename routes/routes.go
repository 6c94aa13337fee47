package routes

import (
	"net/http"

	"olilab/app"
	"olilab/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	Register(r, controllers.GetSrv(a))
}

// Register 挂载全部路由；测试里直接传入组装好的 Srv
func Register(r *gin.Engine, s *controllers.Srv) {
	authCtl := controllers.NewAuthController(s)
	itemCtl := controllers.NewItemController(s)
	uc := controllers.NewUserController(s)
	sugCtl := controllers.NewSuggestionController(s)
	notifCtl := controllers.NewNotificationController(s)
	reportCtl := controllers.NewReportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.Sess, s.Engine)
	adminMW := app.AdminOnly()

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	// ------------------------------
	// 登录 / 注册（公开+受保护）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/me", authMW, authCtl.Me)
	}

	// ------------------------------
	// 物品
	// ------------------------------
	items := r.Group("/api/items", authMW)
	{
		items.GET("", itemCtl.ListItems)
		items.POST("", adminMW, itemCtl.CreateItem)
		items.POST("/import", adminMW, itemCtl.ImportItems)
		items.PUT("/:id", adminMW, itemCtl.EditItem)
		items.DELETE("/:id", adminMW, itemCtl.DeleteItem)
	}

	// ------------------------------
	// 借还
	// ------------------------------
	loans := r.Group("/api/loans", authMW)
	{
		loans.GET("", itemCtl.ListLoans) // ?userId=&itemId=&status=&action=
		loans.GET("/mine", itemCtl.MyBorrows)
		loans.POST("", itemCtl.RequestBorrow)
		loans.POST("/:id/return-request", itemCtl.RequestReturn)
		loans.POST("/:id/approve", adminMW, itemCtl.ApproveBorrow)
		loans.POST("/:id/deny", adminMW, itemCtl.DenyBorrow)
		loans.POST("/:id/return", adminMW, itemCtl.CompleteReturn)
	}

	// ------------------------------
	// 用户管理
	// ------------------------------
	users := r.Group("/api/users", authMW)
	{
		users.GET("", adminMW, uc.ListUsers) // ?status=&q=
		users.GET("/:id", uc.GetUser)
		users.PUT("/:id", uc.EditUser)
		users.POST("/:id/approve", adminMW, uc.ApproveUser)
		users.POST("/:id/deny", adminMW, uc.DenyUser)
		users.DELETE("/:id", adminMW, uc.DeleteUser)
	}

	// ------------------------------
	// 建议
	// ------------------------------
	sug := r.Group("/api/suggestions", authMW)
	{
		sug.GET("", sugCtl.ListSuggestions)
		sug.POST("", sugCtl.AddSuggestion)
		sug.POST("/:id/comments", sugCtl.AddComment)
		sug.POST("/:id/approve", adminMW, sugCtl.ApproveSuggestion)
		sug.POST("/:id/deny", adminMW, sugCtl.DenySuggestion)
	}

	// ------------------------------
	// 管理员：通知 / 报告 / 审计
	// ------------------------------
	notif := r.Group("/api/notifications", authMW, adminMW)
	{
		notif.GET("", notifCtl.ListNotifications)
		notif.POST("/read", notifCtl.MarkRead)
	}
	r.GET("/api/reports/inventory", authMW, adminMW, reportCtl.Inventory)
	r.GET("/api/admin/audit", authMW, adminMW, reportCtl.Audit)
}
