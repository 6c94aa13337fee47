// controllers/item_loan_controller.go
package controllers

import (
	"net/http"

	"olilab/app"
	"olilab/inventory"
	"olilab/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// GET /api/items
func (ic *ItemController) ListItems(c *gin.Context) {
	st := ic.Engine.Snapshot()
	c.JSON(http.StatusOK, app.H{"items": st.Items, "categories": models.ItemCategories})
}

// POST /api/items 管理员新建物品
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in inventory.ItemDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	out, ok := ic.exec(c, inventory.AddItem{Actor: actorID(c), Item: in})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": out.ID})
}

// PUT /api/items/:id
func (ic *ItemController) EditItem(c *gin.Context) {
	var in inventory.ItemDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	cmd := inventory.EditItem{
		Actor:         actorID(c),
		ID:            c.Param("id"),
		ItemName:      in.Name,
		Category:      in.Category,
		TotalQuantity: in.TotalQuantity,
	}
	if _, ok := ic.exec(c, cmd); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/items/:id  仍有未归还借出时 409
func (ic *ItemController) DeleteItem(c *gin.Context) {
	if _, ok := ic.exec(c, inventory.DeleteItem{Actor: actorID(c), ID: c.Param("id")}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/items/import  {items:[...]}，不合法的记录直接跳过
func (ic *ItemController) ImportItems(c *gin.Context) {
	var in struct {
		Items []inventory.ItemDraft `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	valid, skipped := inventory.ValidDrafts(in.Items)
	if len(valid) > 0 {
		if _, ok := ic.exec(c, inventory.ImportItems{Actor: actorID(c), Items: valid}); !ok {
			return
		}
	}
	c.JSON(http.StatusOK, app.H{"imported": len(valid), "skipped": skipped})
}

// ---------------- 借还 ----------------

// GET /api/loans?userId=&itemId=&status=&action=
// 普通用户只能看到自己的记录
func (ic *ItemController) ListLoans(c *gin.Context) {
	userID := c.Query("userId")
	if !c.GetBool(app.CtxIsAdmin) {
		userID = actorID(c)
	}
	itemID := c.Query("itemId")
	status := models.LogStatus(c.Query("status"))
	action := models.LogAction(c.Query("action"))

	st := ic.Engine.Snapshot()
	out := make([]models.LogEntry, 0, len(st.Logs))
	for _, l := range st.Logs {
		if userID != "" && l.UserID != userID {
			continue
		}
		if itemID != "" && l.ItemID != itemID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		if action != "" && l.Action != action {
			continue
		}
		out = append(out, l)
	}
	c.JSON(http.StatusOK, app.H{"logs": out})
}

// GET /api/loans/mine 当前用户未归还的借出
func (ic *ItemController) MyBorrows(c *gin.Context) {
	uid := actorID(c)
	st := ic.Engine.Snapshot()
	out := []models.LogEntry{}
	for _, l := range st.Logs {
		if l.UserID == uid && l.IsOutstanding() {
			out = append(out, l)
		}
	}
	c.JSON(http.StatusOK, app.H{"logs": out})
}

// POST /api/loans  借用申请；userId 省略时为自己
func (ic *ItemController) RequestBorrow(c *gin.Context) {
	var in struct {
		UserID   string `json:"userId"`
		ItemID   string `json:"itemId" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.UserID == "" {
		in.UserID = actorID(c)
	}
	out, ok := ic.exec(c, inventory.RequestBorrow{Actor: actorID(c), UserID: in.UserID, ItemID: in.ItemID, Quantity: in.Quantity})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": out.ID, "status": models.LogPending})
}

// POST /api/loans/:id/approve
func (ic *ItemController) ApproveBorrow(c *gin.Context) {
	if _, ok := ic.exec(c, inventory.ApproveBorrow{Actor: actorID(c), LogID: c.Param("id")}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/loans/:id/deny {reason}
func (ic *ItemController) DenyBorrow(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !bindOptional(c, &in) {
		return
	}
	if _, ok := ic.exec(c, inventory.DenyBorrow{Actor: actorID(c), LogID: c.Param("id"), Reason: in.Reason}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/loans/:id/return-request 借用人申请归还
func (ic *ItemController) RequestReturn(c *gin.Context) {
	if _, ok := ic.exec(c, inventory.RequestReturn{Actor: actorID(c), LogID: c.Param("id")}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/loans/:id/return 管理员确认归还
func (ic *ItemController) CompleteReturn(c *gin.Context) {
	var in struct {
		AdminNotes string `json:"adminNotes"`
	}
	if !bindOptional(c, &in) {
		return
	}
	out, ok := ic.exec(c, inventory.CompleteReturn{Actor: actorID(c), LogID: c.Param("id"), AdminNotes: in.AdminNotes})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"returnLogId": out.ID})
}
