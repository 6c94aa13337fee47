// models/item_loan.go
package models

// ItemCategories 标准物品分类
var ItemCategories = []string{"Physics", "Biology", "Chemistry", "Mathematics", "Others"}

// Item 可借物品；TotalQuantity - AvailableQuantity 即当前借出数量
type Item struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	TotalQuantity     int    `json:"totalQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

func (it Item) Borrowed() int { return it.TotalQuantity - it.AvailableQuantity }

type LogAction string

const (
	ActionBorrow LogAction = "BORROW"
	ActionReturn LogAction = "RETURN"
)

type LogStatus string

const (
	LogPending  LogStatus = "PENDING"
	LogApproved LogStatus = "APPROVED" // 借出中
	LogDenied   LogStatus = "DENIED"
	LogReturned LogStatus = "RETURNED"
)

// LogEntry 借用/归还记录。RETURN 记录通过 RelatedLogID 指向它关闭的 BORROW 记录，
// 且自身没有状态。
type LogEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ItemID          string    `json:"itemId"`
	Quantity        int       `json:"quantity"`
	Timestamp       string    `json:"timestamp"`
	Action          LogAction `json:"action"`
	Status          LogStatus `json:"status,omitempty"`
	AdminNotes      string    `json:"adminNotes,omitempty"`
	RelatedLogID    string    `json:"relatedLogId,omitempty"`
	ReturnRequested bool      `json:"returnRequested,omitempty"`
}

// IsOutstanding 借出未还
func (l LogEntry) IsOutstanding() bool {
	return l.Action == ActionBorrow && l.Status == LogApproved
}
