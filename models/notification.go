package models

type NotificationType string

const (
	NotifyNewUser               NotificationType = "new_user"
	NotifyReturnRequest         NotificationType = "return_request"
	NotifyNewBorrowRequest      NotificationType = "new_borrow_request"
	NotifyBorrowRequestDenied   NotificationType = "borrow_request_denied"
	NotifyBorrowRequestApproved NotificationType = "borrow_request_approved"
	NotifyAccountApproved       NotificationType = "account_approved"
	NotifyAccountDenied         NotificationType = "account_denied"
)

// Notification 只追加；唯一的修改是批量标记已读
type Notification struct {
	ID           string           `json:"id"`
	Message      string           `json:"message"`
	Type         NotificationType `json:"type"`
	Read         bool             `json:"read"`
	Timestamp    string           `json:"timestamp"`
	RelatedLogID string           `json:"relatedLogId,omitempty"`
}
