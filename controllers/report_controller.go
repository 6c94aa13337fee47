package controllers

import (
	"net/http"

	"olilab/app"
	"olilab/inventory"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/inventory  报告服务失败时也返回 200 + 说明文字
func (rc *ReportController) Inventory(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"report": rc.Engine.Report(c.Request.Context())})
}

// GET /api/admin/audit  按借还记录重新核对库存
func (rc *ReportController) Audit(c *gin.Context) {
	st := rc.Engine.Snapshot()
	if err := inventory.CheckInvariants(st); err != nil {
		c.JSON(http.StatusOK, app.H{"ok": false, "version": st.Version, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "version": st.Version})
}
