package controllers

import (
	"net/http"

	"olilab/app"
	"olilab/inventory"
	"olilab/models"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct{ *Srv }

func NewSuggestionController(s *Srv) *SuggestionController { return &SuggestionController{Srv: s} }

type suggestionView struct {
	models.Suggestion
	Comments []models.Comment `json:"comments"`
}

// GET /api/suggestions  管理员看全部，普通用户只看自己的
func (sc *SuggestionController) ListSuggestions(c *gin.Context) {
	uid, admin := actorID(c), c.GetBool(app.CtxIsAdmin)
	st := sc.Engine.Snapshot()

	byID := make(map[string][]models.Comment)
	for _, cm := range st.Comments {
		byID[cm.SuggestionID] = append(byID[cm.SuggestionID], cm)
	}
	out := []suggestionView{}
	for _, sg := range st.Suggestions {
		if !admin && sg.UserID != uid {
			continue
		}
		cms := byID[sg.ID]
		if cms == nil {
			cms = []models.Comment{}
		}
		out = append(out, suggestionView{Suggestion: sg, Comments: cms})
	}
	c.JSON(http.StatusOK, app.H{"suggestions": out})
}

// POST /api/suggestions
func (sc *SuggestionController) AddSuggestion(c *gin.Context) {
	var in struct {
		UserID      string                `json:"userId"`
		Type        models.SuggestionType `json:"type" binding:"required"`
		Title       string                `json:"title"`
		Description string                `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.UserID == "" {
		in.UserID = actorID(c)
	}
	out, ok := sc.exec(c, inventory.AddSuggestion{
		Actor:       actorID(c),
		UserID:      in.UserID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
	})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": out.ID})
}

// POST /api/suggestions/:id/approve
// 物品建议需要 {category,totalQuantity}，会同时新建物品
func (sc *SuggestionController) ApproveSuggestion(c *gin.Context) {
	var in struct {
		Category      string `json:"category"`
		TotalQuantity int    `json:"totalQuantity"`
	}
	if !bindOptional(c, &in) {
		return
	}

	id := c.Param("id")
	var kind models.SuggestionType
	st := sc.Engine.Snapshot()
	if i := st.SuggestionIndex(id); i >= 0 {
		kind = st.Suggestions[i].Type
	}

	var cmd inventory.Command = inventory.ApproveFeatureSuggestion{Actor: actorID(c), ID: id}
	if kind == models.SuggestItem {
		cmd = inventory.ApproveItemSuggestion{Actor: actorID(c), ID: id, Category: in.Category, TotalQuantity: in.TotalQuantity}
	}
	out, ok := sc.exec(c, cmd)
	if !ok {
		return
	}
	if kind == models.SuggestItem {
		c.JSON(http.StatusOK, app.H{"itemId": out.ID})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/suggestions/:id/deny {reason}
func (sc *SuggestionController) DenySuggestion(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !bindOptional(c, &in) {
		return
	}
	if _, ok := sc.exec(c, inventory.DenySuggestion{Actor: actorID(c), ID: c.Param("id"), Reason: in.Reason}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/suggestions/:id/comments {text}
func (sc *SuggestionController) AddComment(c *gin.Context) {
	var in struct {
		Text string `json:"text"`
	}
	if !bindOptional(c, &in) {
		return
	}
	out, ok := sc.exec(c, inventory.AddComment{Actor: actorID(c), SuggestionID: c.Param("id"), Text: in.Text})
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": out.ID})
}
