package models

import "time"

const SnapshotTable = "olilab_snapshots"

// State 整个系统唯一的聚合；持久化与一致性都以它为单位。
// Logs/Notifications/Suggestions/Comments 按新到旧排列（新记录插在最前面）。
type State struct {
	Version       int64          `json:"version"`
	Items         []Item         `json:"items"`
	Users         []User         `json:"users"`
	Logs          []LogEntry     `json:"logs"`
	Notifications []Notification `json:"notifications"`
	Suggestions   []Suggestion   `json:"suggestions"`
	Comments      []Comment      `json:"comments"`
}

// Clone 深拷贝；命令在副本上计算新状态，失败时直接丢弃副本
func (s State) Clone() State {
	out := State{
		Version:       s.Version,
		Items:         append([]Item{}, s.Items...),
		Users:         make([]User, len(s.Users)),
		Logs:          append([]LogEntry{}, s.Logs...),
		Notifications: append([]Notification{}, s.Notifications...),
		Suggestions:   append([]Suggestion{}, s.Suggestions...),
		Comments:      append([]Comment{}, s.Comments...),
	}
	for i, u := range s.Users {
		out.Users[i] = u.Clone()
	}
	return out
}

// Normalize 加载时的迁移：补齐缺失集合，旧数据里没有状态的 BORROW 记录视为 APPROVED，
// 没有状态的用户视为 APPROVED。之后所有读取点都不用再判断空状态。
func (s *State) Normalize() {
	if s.Items == nil {
		s.Items = []Item{}
	}
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	if s.Suggestions == nil {
		s.Suggestions = []Suggestion{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	for i := range s.Logs {
		if s.Logs[i].Action == ActionBorrow && s.Logs[i].Status == "" {
			s.Logs[i].Status = LogApproved
		}
	}
	for i := range s.Users {
		if s.Users[i].Status == "" {
			s.Users[i].Status = UserApproved
		}
	}
}

func (s *State) ItemIndex(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) UserIndex(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) LogIndex(id string) int {
	for i := range s.Logs {
		if s.Logs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) SuggestionIndex(id string) int {
	for i := range s.Suggestions {
		if s.Suggestions[i].ID == id {
			return i
		}
	}
	return -1
}

// Admins 所有 isAdmin 用户（不区分状态），注册邮件发给他们
func (s *State) Admins() []User {
	var out []User
	for _, u := range s.Users {
		if u.IsAdmin {
			out = append(out, u)
		}
	}
	return out
}

// Snapshot 数据库里保存聚合的单行记录
type Snapshot struct {
	ID        uint   `gorm:"primaryKey"`
	Version   int64  `gorm:"not null;default:0"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (Snapshot) TableName() string { return SnapshotTable }
