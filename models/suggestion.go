package models

type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "PENDING"
	SuggestionApproved SuggestionStatus = "APPROVED"
	SuggestionDenied   SuggestionStatus = "DENIED"
)

type SuggestionType string

const (
	SuggestItem    SuggestionType = "ITEM"
	SuggestFeature SuggestionType = "FEATURE"
)

type Suggestion struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Type        SuggestionType   `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"` // ITEM 类型审批时由管理员填写
	Status      SuggestionStatus `json:"status"`
	Timestamp   string           `json:"timestamp"`
}

// Comment 挂在 Suggestion 下；拒绝理由也以管理员评论的形式记录
type Comment struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	SuggestionID string `json:"suggestionId"`
	Text         string `json:"text"`
	Timestamp    string `json:"timestamp"`
}
