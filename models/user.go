package models

type UserStatus string

const (
	UserPending  UserStatus = "PENDING"
	UserApproved UserStatus = "APPROVED"
	UserDenied   UserStatus = "DENIED"
)

const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
)

const (
	Grade11 = "Grade 11"
	Grade12 = "Grade 12"
)

// GradeSections 每个年级固定的班级列表
var GradeSections = map[string][]string{
	Grade11: {"Altruism", "Benevolence", "Creativity"},
	Grade12: {"Diplomacy", "Efficiency", "Fairness"},
}

// User 注册账号；Password 存 bcrypt 哈希
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	FullName   string     `json:"fullName"`
	Email      string     `json:"email"`
	Password   string     `json:"password,omitempty"`
	LRN        string     `json:"lrn"` // Learner's Reference Number，管理员可为空
	GradeLevel *string    `json:"gradeLevel"`
	Section    *string    `json:"section"`
	Role       string     `json:"role"`
	IsAdmin    bool       `json:"isAdmin"`
	Status     UserStatus `json:"status"`
}

func (u User) IsApprovedAdmin() bool { return u.IsAdmin && u.Status == UserApproved }

// Clone 复制指针字段
func (u User) Clone() User {
	if u.GradeLevel != nil {
		g := *u.GradeLevel
		u.GradeLevel = &g
	}
	if u.Section != nil {
		sec := *u.Section
		u.Section = &sec
	}
	return u
}

// Public 去掉密码哈希，用于 API 输出
func (u User) Public() User {
	u.Password = ""
	return u
}
