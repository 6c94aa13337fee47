package inventory

import (
	"fmt"
	"strings"

	"olilab/models"
)

// 借用状态机：PENDING → APPROVED → RETURNED，PENDING → DENIED（终态）。
// 申请时不预留库存，审批才是唯一扣减点；两个待审申请可以争同一批库存。

func borrowLog(s *models.State, id string) (int, error) {
	i := s.LogIndex(id)
	if i < 0 || s.Logs[i].Action != models.ActionBorrow {
		return -1, notFound("borrow log", id)
	}
	return i, nil
}

func requireStatus(l models.LogEntry, want models.LogStatus) error {
	if l.Status != want {
		return fmt.Errorf("%w: log %s is %s, expected %s", ErrInvalidState, l.ID, l.Status, want)
	}
	return nil
}

type RequestBorrow struct {
	Actor    string
	UserID   string
	ItemID   string
	Quantity int
}

func (RequestBorrow) Name() string { return "requestBorrow" }

func (c RequestBorrow) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireSelfOrAdmin(s, c.Actor, c.UserID); err != nil {
		return Outcome{}, err
	}
	ui := s.UserIndex(c.UserID)
	if ui < 0 {
		return Outcome{}, notFound("user", c.UserID)
	}
	ii := s.ItemIndex(c.ItemID)
	if ii < 0 {
		return Outcome{}, notFound("item", c.ItemID)
	}
	if c.Quantity <= 0 {
		return Outcome{}, invalid("quantity must be positive, got %d", c.Quantity)
	}
	it := s.Items[ii]
	if it.AvailableQuantity < c.Quantity {
		return Outcome{}, fmt.Errorf("%w: requested %d of %s, %d available", ErrInsufficientStock, c.Quantity, it.Name, it.AvailableQuantity)
	}

	l := models.LogEntry{
		ID:        env.NewID("log"),
		UserID:    c.UserID,
		ItemID:    c.ItemID,
		Quantity:  c.Quantity,
		Timestamp: env.timestamp(),
		Action:    models.ActionBorrow,
		Status:    models.LogPending,
	}
	s.Logs = append([]models.LogEntry{l}, s.Logs...)
	pushNotification(s, env, models.NotifyNewBorrowRequest, borrowRequestMessage(s.Users[ui].FullName, it.Name, c.Quantity), l.ID)
	return Outcome{ID: l.ID}, nil
}

type ApproveBorrow struct {
	Actor string
	LogID string
}

func (ApproveBorrow) Name() string { return "approveBorrow" }

func (c ApproveBorrow) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	li, err := borrowLog(s, c.LogID)
	if err != nil {
		return Outcome{}, err
	}
	l := s.Logs[li]
	if err := requireStatus(l, models.LogPending); err != nil {
		return Outcome{}, err
	}
	if s.UserIndex(l.UserID) < 0 {
		return Outcome{}, notFound("borrower", l.UserID)
	}
	ii := s.ItemIndex(l.ItemID)
	if ii < 0 {
		return Outcome{}, notFound("item", l.ItemID)
	}
	// 申请之后库存可能已被别的审批占用，这里必须重新检查
	if s.Items[ii].AvailableQuantity < l.Quantity {
		return Outcome{}, fmt.Errorf("%w: cannot approve %d of %s, %d available", ErrInsufficientStock, l.Quantity, s.Items[ii].Name, s.Items[ii].AvailableQuantity)
	}
	s.Items[ii].AvailableQuantity -= l.Quantity
	s.Logs[li].Status = models.LogApproved
	pushNotification(s, env, models.NotifyBorrowRequestApproved,
		fmt.Sprintf("Borrow request for %dx %s was approved.", l.Quantity, s.Items[ii].Name), l.ID)
	return Outcome{ID: l.ID}, nil
}

type DenyBorrow struct {
	Actor  string
	LogID  string
	Reason string
}

func (DenyBorrow) Name() string { return "denyBorrow" }

func (c DenyBorrow) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	li, err := borrowLog(s, c.LogID)
	if err != nil {
		return Outcome{}, err
	}
	if err := requireStatus(s.Logs[li], models.LogPending); err != nil {
		return Outcome{}, err
	}
	reason := strings.TrimSpace(c.Reason)
	if reason == "" {
		return Outcome{}, invalid("a reason is required to deny a request")
	}
	s.Logs[li].Status = models.LogDenied
	s.Logs[li].AdminNotes = reason
	pushNotification(s, env, models.NotifyBorrowRequestDenied,
		fmt.Sprintf("Borrow request was denied: %s", reason), c.LogID)
	return Outcome{ID: c.LogID}, nil
}

// RequestReturn 借用人申请归还；重复调用效果相同，但每次都会产生通知
type RequestReturn struct {
	Actor string
	LogID string
}

func (RequestReturn) Name() string { return "requestReturn" }

func (c RequestReturn) apply(s *models.State, env Env) (Outcome, error) {
	li, err := borrowLog(s, c.LogID)
	if err != nil {
		return Outcome{}, err
	}
	l := s.Logs[li]
	if err := requireSelfOrAdmin(s, c.Actor, l.UserID); err != nil {
		return Outcome{}, err
	}
	if err := requireStatus(l, models.LogApproved); err != nil {
		return Outcome{}, err
	}
	s.Logs[li].ReturnRequested = true

	var name, item string
	if ui := s.UserIndex(l.UserID); ui >= 0 {
		name = s.Users[ui].FullName
	}
	if ii := s.ItemIndex(l.ItemID); ii >= 0 {
		item = s.Items[ii].Name
	}
	pushNotification(s, env, models.NotifyReturnRequest,
		returnRequestMessage(name, item, l.Quantity), l.ID)
	return Outcome{ID: l.ID}, nil
}

// CompleteReturn 关闭借出：BORROW 记录置 RETURNED，追加 RETURN 记录，归还库存
type CompleteReturn struct {
	Actor      string
	LogID      string
	AdminNotes string
}

func (CompleteReturn) Name() string { return "completeReturn" }

func (c CompleteReturn) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	li, err := borrowLog(s, c.LogID)
	if err != nil {
		return Outcome{}, err
	}
	l := s.Logs[li]
	if err := requireStatus(l, models.LogApproved); err != nil {
		return Outcome{}, err
	}
	s.Logs[li].Status = models.LogReturned

	ret := models.LogEntry{
		ID:           env.NewID("log"),
		UserID:       l.UserID,
		ItemID:       l.ItemID,
		Quantity:     l.Quantity,
		Timestamp:    env.timestamp(),
		Action:       models.ActionReturn,
		AdminNotes:   strings.TrimSpace(c.AdminNotes),
		RelatedLogID: l.ID,
	}
	s.Logs = append([]models.LogEntry{ret}, s.Logs...)

	// 物品可能已被删除（旧数据）；存在时才回补，且不超过总量
	if ii := s.ItemIndex(l.ItemID); ii >= 0 {
		it := &s.Items[ii]
		it.AvailableQuantity = min(it.TotalQuantity, it.AvailableQuantity+l.Quantity)
	}
	return Outcome{ID: ret.ID}, nil
}
