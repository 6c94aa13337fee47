package inventory

import (
	"fmt"
	"strings"

	"olilab/models"
)

// 建议流程：PENDING → APPROVED | DENIED，单向。

func pendingSuggestion(s *models.State, id string) (int, error) {
	i := s.SuggestionIndex(id)
	if i < 0 {
		return -1, notFound("suggestion", id)
	}
	if s.Suggestions[i].Status != models.SuggestionPending {
		return -1, fmt.Errorf("%w: suggestion %s is %s", ErrInvalidState, id, s.Suggestions[i].Status)
	}
	return i, nil
}

func appendComment(s *models.State, env Env, suggestionID, userID, text string) models.Comment {
	cm := models.Comment{
		ID:           env.NewID("comment"),
		UserID:       userID,
		SuggestionID: suggestionID,
		Text:         text,
		Timestamp:    env.timestamp(),
	}
	s.Comments = append([]models.Comment{cm}, s.Comments...)
	return cm
}

type AddSuggestion struct {
	Actor       string
	UserID      string
	Type        models.SuggestionType
	Title       string
	Description string
}

func (AddSuggestion) Name() string { return "addSuggestion" }

func (c AddSuggestion) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireSelfOrAdmin(s, c.Actor, c.UserID); err != nil {
		return Outcome{}, err
	}
	if c.Type != models.SuggestItem && c.Type != models.SuggestFeature {
		return Outcome{}, invalid("unknown suggestion type %q", c.Type)
	}
	if strings.TrimSpace(c.Title) == "" {
		return Outcome{}, invalid("suggestion title is required")
	}
	sg := models.Suggestion{
		ID:          env.NewID("sug"),
		UserID:      c.UserID,
		Type:        c.Type,
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Status:      models.SuggestionPending,
		Timestamp:   env.timestamp(),
	}
	s.Suggestions = append([]models.Suggestion{sg}, s.Suggestions...)
	return Outcome{ID: sg.ID}, nil
}

// ApproveItemSuggestion 批准物品建议，并以建议标题在账本中新建物品
type ApproveItemSuggestion struct {
	Actor         string
	ID            string
	Category      string
	TotalQuantity int
}

func (ApproveItemSuggestion) Name() string { return "approveItemSuggestion" }

func (c ApproveItemSuggestion) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i, err := pendingSuggestion(s, c.ID)
	if err != nil {
		return Outcome{}, err
	}
	sg := s.Suggestions[i]
	if sg.Type != models.SuggestItem {
		return Outcome{}, fmt.Errorf("%w: suggestion %s is not an item suggestion", ErrInvalidState, c.ID)
	}
	draft := ItemDraft{Name: sg.Title, Category: c.Category, TotalQuantity: c.TotalQuantity}
	if err := draft.Validate(); err != nil {
		return Outcome{}, err
	}
	s.Suggestions[i].Status = models.SuggestionApproved
	s.Suggestions[i].Category = strings.TrimSpace(c.Category)
	it := addItem(s, env, draft)
	return Outcome{ID: it.ID}, nil
}

type ApproveFeatureSuggestion struct {
	Actor string
	ID    string
}

func (ApproveFeatureSuggestion) Name() string { return "approveFeatureSuggestion" }

func (c ApproveFeatureSuggestion) apply(s *models.State, _ Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i, err := pendingSuggestion(s, c.ID)
	if err != nil {
		return Outcome{}, err
	}
	if s.Suggestions[i].Type != models.SuggestFeature {
		return Outcome{}, fmt.Errorf("%w: suggestion %s is not a feature suggestion", ErrInvalidState, c.ID)
	}
	s.Suggestions[i].Status = models.SuggestionApproved
	return Outcome{ID: c.ID}, nil
}

// DenySuggestion 拒绝建议。理由不单独存字段，而是作为管理员评论写进讨论串，
// 这样拒绝原因和其他评论一起可见。
type DenySuggestion struct {
	Actor  string
	ID     string
	Reason string
}

func (DenySuggestion) Name() string { return "denySuggestion" }

func (c DenySuggestion) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i, err := pendingSuggestion(s, c.ID)
	if err != nil {
		return Outcome{}, err
	}
	reason := strings.TrimSpace(c.Reason)
	if reason == "" {
		return Outcome{}, invalid("a reason is required to deny a suggestion")
	}
	s.Suggestions[i].Status = models.SuggestionDenied
	cm := appendComment(s, env, c.ID, c.Actor, reason)
	return Outcome{ID: cm.ID}, nil
}

// AddComment 仅管理员或建议提出者可以评论
type AddComment struct {
	Actor        string
	SuggestionID string
	Text         string
}

func (AddComment) Name() string { return "addComment" }

func (c AddComment) apply(s *models.State, env Env) (Outcome, error) {
	i := s.SuggestionIndex(c.SuggestionID)
	if i < 0 {
		return Outcome{}, notFound("suggestion", c.SuggestionID)
	}
	if err := requireSelfOrAdmin(s, c.Actor, s.Suggestions[i].UserID); err != nil {
		return Outcome{}, err
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return Outcome{}, invalid("comment text is required")
	}
	cm := appendComment(s, env, c.SuggestionID, c.Actor, text)
	return Outcome{ID: cm.ID}, nil
}
