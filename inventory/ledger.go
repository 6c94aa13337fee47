package inventory

import (
	"fmt"
	"strings"

	"olilab/models"
)

// ItemDraft 新建物品的输入（手工添加、批量导入、建议审批共用）
type ItemDraft struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	TotalQuantity int    `json:"totalQuantity"`
}

func (d ItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("item name is required")
	}
	if strings.TrimSpace(d.Category) == "" {
		return invalid("item category is required")
	}
	if d.TotalQuantity <= 0 {
		return invalid("total quantity must be positive, got %d", d.TotalQuantity)
	}
	return nil
}

// ValidDrafts 拆分可导入与需跳过的记录；导入时调用方只提交前者
func ValidDrafts(drafts []ItemDraft) (valid []ItemDraft, skipped int) {
	for _, d := range drafts {
		if d.Validate() != nil {
			skipped++
			continue
		}
		valid = append(valid, d)
	}
	return valid, skipped
}

// addItem 账本唯一的建物品入口：available = total
func addItem(s *models.State, env Env, d ItemDraft) models.Item {
	it := models.Item{
		ID:                env.NewID("item"),
		Name:              strings.TrimSpace(d.Name),
		Category:          strings.TrimSpace(d.Category),
		TotalQuantity:     d.TotalQuantity,
		AvailableQuantity: d.TotalQuantity,
	}
	s.Items = append(s.Items, it)
	return it
}

// HasOutstandingLoans 是否存在引用该物品的已批准借出
func HasOutstandingLoans(s *models.State, itemID string) bool {
	for _, l := range s.Logs {
		if l.ItemID == itemID && l.IsOutstanding() {
			return true
		}
	}
	return false
}

type AddItem struct {
	Actor string
	Item  ItemDraft
}

func (AddItem) Name() string { return "addItem" }

func (c AddItem) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	if err := c.Item.Validate(); err != nil {
		return Outcome{}, err
	}
	it := addItem(s, env, c.Item)
	return Outcome{ID: it.ID}, nil
}

// EditItem 修改名称/分类/总量；借出数量保持不变，可用量随总量重算
type EditItem struct {
	Actor         string
	ID            string
	ItemName      string
	Category      string
	TotalQuantity int
}

func (EditItem) Name() string { return "editItem" }

func (c EditItem) apply(s *models.State, _ Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i := s.ItemIndex(c.ID)
	if i < 0 {
		return Outcome{}, notFound("item", c.ID)
	}
	if strings.TrimSpace(c.ItemName) == "" || strings.TrimSpace(c.Category) == "" {
		return Outcome{}, invalid("item name and category are required")
	}
	old := s.Items[i]
	borrowed := old.Borrowed()
	if c.TotalQuantity < borrowed {
		return Outcome{}, invalid("total quantity %d is below the %d units currently borrowed", c.TotalQuantity, borrowed)
	}
	s.Items[i] = models.Item{
		ID:                old.ID,
		Name:              strings.TrimSpace(c.ItemName),
		Category:          strings.TrimSpace(c.Category),
		TotalQuantity:     c.TotalQuantity,
		AvailableQuantity: c.TotalQuantity - borrowed,
	}
	return Outcome{ID: old.ID}, nil
}

type DeleteItem struct {
	Actor string
	ID    string
}

func (DeleteItem) Name() string { return "deleteItem" }

func (c DeleteItem) apply(s *models.State, _ Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i := s.ItemIndex(c.ID)
	if i < 0 {
		return Outcome{}, notFound("item", c.ID)
	}
	if HasOutstandingLoans(s, c.ID) {
		return Outcome{}, fmt.Errorf("%w: item %s has outstanding loans", ErrConflict, c.ID)
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return Outcome{ID: c.ID}, nil
}

// ImportItems 批量 addItem；只接受全部合法的记录
type ImportItems struct {
	Actor string
	Items []ItemDraft
}

func (ImportItems) Name() string { return "importItems" }

func (c ImportItems) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	for n, d := range c.Items {
		if err := d.Validate(); err != nil {
			return Outcome{}, fmt.Errorf("record %d: %w", n+1, err)
		}
	}
	for _, d := range c.Items {
		addItem(s, env, d)
	}
	return Outcome{}, nil
}
