package inventory

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"olilab/models"
)

// 用户状态机：PENDING → APPROVED | DENIED，单向。

var lrnPattern = regexp.MustCompile(`^\d{12}$`)

const minPasswordLen = 6

// Registration 自助注册提交的资料
type Registration struct {
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	LRN        string  `json:"lrn"`
	GradeLevel *string `json:"gradeLevel"`
	Section    *string `json:"section"`
}

func validateSchooling(gradeLevel, section *string) error {
	if gradeLevel == nil {
		if section != nil {
			return invalid("section requires a grade level")
		}
		return nil
	}
	sections, ok := models.GradeSections[*gradeLevel]
	if !ok {
		return invalid("unknown grade level %q", *gradeLevel)
	}
	if section != nil && !slices.Contains(sections, *section) {
		return invalid("section %q is not part of %s", *section, *gradeLevel)
	}
	return nil
}

// checkUnique 用户名/姓名/邮箱忽略大小写唯一，LRN（非空时）精确唯一。skipID 为编辑时的本人。
func checkUnique(s *models.State, skipID, username, fullName, email, lrn string) error {
	for _, u := range s.Users {
		if u.ID == skipID {
			continue
		}
		switch {
		case strings.EqualFold(u.Username, username):
			return &DuplicateError{Field: "username", Value: username}
		case strings.EqualFold(u.FullName, fullName):
			return &DuplicateError{Field: "fullName", Value: fullName}
		case strings.EqualFold(u.Email, email):
			return &DuplicateError{Field: "email", Value: email}
		case lrn != "" && u.LRN == lrn:
			return &DuplicateError{Field: "lrn", Value: lrn}
		}
	}
	return nil
}

// RegisterUser 自助注册，新用户一律是 PENDING 的普通成员
type RegisterUser struct {
	Data Registration
}

func (RegisterUser) Name() string { return "registerUser" }

func (c RegisterUser) apply(s *models.State, env Env) (Outcome, error) {
	d := c.Data
	d.Username = strings.TrimSpace(d.Username)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.LRN = strings.TrimSpace(d.LRN)

	if d.Username == "" || d.FullName == "" || d.Email == "" {
		return Outcome{}, invalid("username, full name and email are required")
	}
	if len(d.Password) < minPasswordLen {
		return Outcome{}, invalid("password must be at least %d characters long", minPasswordLen)
	}
	if d.LRN != "" && !lrnPattern.MatchString(d.LRN) {
		return Outcome{}, invalid("LRN must be exactly 12 digits")
	}
	if err := validateSchooling(d.GradeLevel, d.Section); err != nil {
		return Outcome{}, err
	}
	if err := checkUnique(s, "", d.Username, d.FullName, d.Email, d.LRN); err != nil {
		return Outcome{}, err
	}
	hash, err := env.HashPassword(d.Password)
	if err != nil {
		return Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		ID:         env.NewID("user"),
		Username:   d.Username,
		FullName:   d.FullName,
		Email:      d.Email,
		Password:   hash,
		LRN:        d.LRN,
		GradeLevel: d.GradeLevel,
		Section:    d.Section,
		Role:       models.RoleMember,
		Status:     models.UserPending,
	}
	admins := s.Admins()
	s.Users = append(s.Users, u)
	pushNotification(s, env, models.NotifyNewUser, newUserMessage(u), "")

	return Outcome{
		ID:     u.ID,
		Emails: []EmailEvent{{Type: EmailNewUserPending, Subject: u, Recipients: admins}},
	}, nil
}

type decideUser struct {
	actor string
	id    string
	to    models.UserStatus
}

func (c decideUser) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireAdmin(s, c.actor); err != nil {
		return Outcome{}, err
	}
	i := s.UserIndex(c.id)
	if i < 0 {
		return Outcome{}, notFound("user", c.id)
	}
	if s.Users[i].Status != models.UserPending {
		return Outcome{}, fmt.Errorf("%w: user %s is %s, expected %s", ErrInvalidState, c.id, s.Users[i].Status, models.UserPending)
	}
	s.Users[i].Status = c.to
	u := s.Users[i]

	typ := EmailAccountApproved
	if c.to == models.UserDenied {
		typ = EmailAccountDenied
	}
	return Outcome{
		ID:     u.ID,
		Emails: []EmailEvent{{Type: typ, Subject: u, Recipients: []models.User{u}}},
	}, nil
}

type ApproveUser struct {
	Actor string
	ID    string
}

func (ApproveUser) Name() string { return "approveUser" }

func (c ApproveUser) apply(s *models.State, env Env) (Outcome, error) {
	return decideUser{actor: c.Actor, id: c.ID, to: models.UserApproved}.apply(s, env)
}

type DenyUser struct {
	Actor string
	ID    string
}

func (DenyUser) Name() string { return "denyUser" }

func (c DenyUser) apply(s *models.State, env Env) (Outcome, error) {
	return decideUser{actor: c.Actor, id: c.ID, to: models.UserDenied}.apply(s, env)
}

// HasOutstandingBorrows 用户手上是否还有未归还的借出
func HasOutstandingBorrows(s *models.State, userID string) bool {
	for _, l := range s.Logs {
		if l.UserID == userID && l.IsOutstanding() {
			return true
		}
	}
	return false
}

// IsLastApprovedAdmin 删除该用户后是否会没有已批准的管理员
func IsLastApprovedAdmin(s *models.State, userID string) bool {
	i := s.UserIndex(userID)
	if i < 0 || !s.Users[i].IsApprovedAdmin() {
		return false
	}
	n := 0
	for _, u := range s.Users {
		if u.IsApprovedAdmin() {
			n++
		}
	}
	return n <= 1
}

type DeleteUser struct {
	Actor string
	ID    string
}

func (DeleteUser) Name() string { return "deleteUser" }

func (c DeleteUser) apply(s *models.State, _ Env) (Outcome, error) {
	if err := requireAdmin(s, c.Actor); err != nil {
		return Outcome{}, err
	}
	i := s.UserIndex(c.ID)
	if i < 0 {
		return Outcome{}, notFound("user", c.ID)
	}
	if HasOutstandingBorrows(s, c.ID) {
		return Outcome{}, fmt.Errorf("%w: user %s still has items on loan", ErrConflict, c.ID)
	}
	if IsLastApprovedAdmin(s, c.ID) {
		return Outcome{}, fmt.Errorf("%w: cannot delete the last approved admin", ErrConflict)
	}
	// 待审申请随用户一起作废，避免之后被批准给不存在的人
	for n := range s.Logs {
		l := &s.Logs[n]
		if l.UserID == c.ID && l.Action == models.ActionBorrow && l.Status == models.LogPending {
			l.Status = models.LogDenied
			l.AdminNotes = "Borrower account was deleted."
		}
	}
	s.Users = append(s.Users[:i], s.Users[i+1:]...)
	return Outcome{ID: c.ID}, nil
}

// UserPatch 资料修改。Password 为空表示不修改；资料字段和 IsAdmin 只有管理员可以改。
type UserPatch struct {
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	LRN        string  `json:"lrn"`
	GradeLevel *string `json:"gradeLevel"`
	Section    *string `json:"section"`
	IsAdmin    *bool   `json:"isAdmin"`
}

type EditUser struct {
	Actor string
	ID    string
	Patch UserPatch
}

func (EditUser) Name() string { return "editUser" }

func (c EditUser) apply(s *models.State, env Env) (Outcome, error) {
	if err := requireSelfOrAdmin(s, c.Actor, c.ID); err != nil {
		return Outcome{}, err
	}
	i := s.UserIndex(c.ID)
	if i < 0 {
		return Outcome{}, notFound("user", c.ID)
	}
	actorIsAdmin := s.Users[s.UserIndex(c.Actor)].IsAdmin
	p := c.Patch
	if p.IsAdmin != nil && !actorIsAdmin {
		return Outcome{}, fmt.Errorf("%w: only an admin may change admin rights", ErrForbidden)
	}

	u := s.Users[i]
	if !actorIsAdmin {
		// 普通成员只能改自己的密码，资料字段留空或原样回传
		if profileChanged(u, p) {
			return Outcome{}, fmt.Errorf("%w: only an admin may edit profile fields", ErrForbidden)
		}
		p.Username, p.FullName, p.Email, p.LRN = u.Username, u.FullName, u.Email, u.LRN
		p.GradeLevel, p.Section = u.GradeLevel, u.Section
	}
	u.Username = strings.TrimSpace(p.Username)
	u.FullName = strings.TrimSpace(p.FullName)
	u.Email = strings.TrimSpace(p.Email)
	u.LRN = strings.TrimSpace(p.LRN)
	u.GradeLevel, u.Section = p.GradeLevel, p.Section
	if p.IsAdmin != nil && *p.IsAdmin != u.IsAdmin {
		if !*p.IsAdmin && IsLastApprovedAdmin(s, u.ID) {
			return Outcome{}, fmt.Errorf("%w: cannot revoke the last approved admin", ErrConflict)
		}
		u.IsAdmin = *p.IsAdmin
	}
	if u.IsAdmin {
		// 管理员不属于任何年级/班级
		u.Role = models.RoleAdmin
		u.LRN, u.GradeLevel, u.Section = "", nil, nil
	} else {
		u.Role = models.RoleMember
	}

	if u.Username == "" || u.FullName == "" || u.Email == "" {
		return Outcome{}, invalid("username, full name and email are required")
	}
	if u.LRN != "" && !lrnPattern.MatchString(u.LRN) {
		return Outcome{}, invalid("LRN must be exactly 12 digits")
	}
	if err := validateSchooling(u.GradeLevel, u.Section); err != nil {
		return Outcome{}, err
	}
	if err := checkUnique(s, u.ID, u.Username, u.FullName, u.Email, u.LRN); err != nil {
		return Outcome{}, err
	}
	if p.Password != "" {
		if len(p.Password) < minPasswordLen {
			return Outcome{}, invalid("password must be at least %d characters long", minPasswordLen)
		}
		hash, err := env.HashPassword(p.Password)
		if err != nil {
			return Outcome{}, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
	}
	s.Users[i] = u
	return Outcome{ID: u.ID}, nil
}

// profileChanged 补丁里是否有与现值不同的资料字段；空串和 nil 视为未修改
func profileChanged(u models.User, p UserPatch) bool {
	differs := func(in, cur string) bool {
		in = strings.TrimSpace(in)
		return in != "" && in != cur
	}
	differsPtr := func(in, cur *string) bool {
		return in != nil && (cur == nil || *in != *cur)
	}
	return differs(p.Username, u.Username) ||
		differs(p.FullName, u.FullName) ||
		differs(p.Email, u.Email) ||
		differs(p.LRN, u.LRN) ||
		differsPtr(p.GradeLevel, u.GradeLevel) ||
		differsPtr(p.Section, u.Section)
}

// Authenticate 按用户名/邮箱（忽略大小写）或 LRN 查找并校验密码。
// 只有 APPROVED 用户可以登录；PENDING/DENIED 返回 ErrForbidden 并说明原因。
func Authenticate(s *models.State, identifier, password string) (models.User, error) {
	id := strings.TrimSpace(identifier)
	for _, u := range s.Users {
		match := strings.EqualFold(u.Username, id) || strings.EqualFold(u.Email, id) || (u.LRN != "" && u.LRN == id)
		if !match || !CheckPassword(u.Password, password) {
			continue
		}
		switch u.Status {
		case models.UserApproved:
			return u, nil
		case models.UserPending:
			return models.User{}, fmt.Errorf("%w: account is pending approval", ErrForbidden)
		default:
			return models.User{}, fmt.Errorf("%w: account registration was denied", ErrForbidden)
		}
	}
	return models.User{}, fmt.Errorf("%w: invalid credentials", ErrNotFound)
}
