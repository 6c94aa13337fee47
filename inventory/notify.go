package inventory

import (
	"fmt"

	"olilab/models"
)

// EmailType 外部邮件事件
type EmailType string

const (
	EmailNewUserPending  EmailType = "new-user-pending"
	EmailAccountApproved EmailType = "account-approved"
	EmailAccountDenied   EmailType = "account-denied"
)

// EmailEvent 交给邮件协作方的结构化事件。Subject 是事件涉及的用户，
// Recipients 是收件人（注册事件为所有管理员，其他为用户本人）。
type EmailEvent struct {
	Type       EmailType
	Subject    models.User
	Recipients []models.User
}

func pushNotification(s *models.State, env Env, typ models.NotificationType, msg, logID string) {
	n := models.Notification{
		ID:           env.NewID("notif"),
		Message:      msg,
		Type:         typ,
		Timestamp:    env.timestamp(),
		RelatedLogID: logID,
	}
	s.Notifications = append([]models.Notification{n}, s.Notifications...)
}

func newUserMessage(u models.User) string {
	return "New user registration pending approval: " + u.FullName
}

func borrowRequestMessage(fullName, item string, qty int) string {
	return fmt.Sprintf("New borrow request from %s for %dx %s.", fullName, qty, item)
}

func returnRequestMessage(fullName, item string, qty int) string {
	return fmt.Sprintf("%s requested to return %dx %s.", fullName, qty, item)
}

// MarkNotificationsRead 批量标记已读；未知 id 忽略
type MarkNotificationsRead struct {
	Actor string
	IDs   []string
}

func (MarkNotificationsRead) Name() string { return "markNotificationsRead" }

func (c MarkNotificationsRead) apply(s *models.State, _ Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	ids := make(map[string]struct{}, len(c.IDs))
	for _, id := range c.IDs {
		ids[id] = struct{}{}
	}
	for i := range s.Notifications {
		if _, ok := ids[s.Notifications[i].ID]; ok {
			s.Notifications[i].Read = true
		}
	}
	return Outcome{}, nil
}
