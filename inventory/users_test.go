package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olilab/models"
)

func strp(s string) *string { return &s }

func validRegistration() Registration {
	return Registration{
		Username:   "carla",
		FullName:   "Carla Santos",
		Email:      "carla@school.ph",
		Password:   "hunter22",
		LRN:        "210987654321",
		GradeLevel: strp(models.Grade12),
		Section:    strp("Diplomacy"),
	}
}

func TestRegisterUser(t *testing.T) {
	s := fixture(t)
	s, out := mustApply(t, s, RegisterUser{Data: validRegistration()}, testEnv())

	u := s.Users[s.UserIndex(out.ID)]
	assert.Equal(t, models.UserPending, u.Status)
	assert.Equal(t, models.RoleMember, u.Role)
	assert.False(t, u.IsAdmin)
	assert.True(t, CheckPassword(u.Password, "hunter22"))
	assert.NotEqual(t, "hunter22", u.Password)

	require.NotEmpty(t, s.Notifications)
	assert.Equal(t, models.NotifyNewUser, s.Notifications[0].Type)
	assert.Equal(t, "New user registration pending approval: Carla Santos", s.Notifications[0].Message)

	require.Len(t, out.Emails, 1)
	ev := out.Emails[0]
	assert.Equal(t, EmailNewUserPending, ev.Type)
	assert.Equal(t, out.ID, ev.Subject.ID)
	require.Len(t, ev.Recipients, 1)
	assert.Equal(t, adminID, ev.Recipients[0].ID)

	// PENDING 用户不能登录，也不能执行命令
	_, err := Authenticate(&s, "carla", "hunter22")
	assert.ErrorIs(t, err, ErrForbidden)
	_, _, err = Apply(s, RequestBorrow{Actor: out.ID, UserID: out.ID, ItemID: beakerID, Quantity: 1}, testEnv())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterUserValidation(t *testing.T) {
	cases := map[string]struct {
		edit func(r *Registration)
		want error
		dup  string
	}{
		"short password":         {func(r *Registration) { r.Password = "12345" }, ErrValidation, ""},
		"lrn too short":          {func(r *Registration) { r.LRN = "12345678901" }, ErrValidation, ""},
		"lrn not digits":         {func(r *Registration) { r.LRN = "12345678901a" }, ErrValidation, ""},
		"unknown grade":          {func(r *Registration) { r.GradeLevel = strp("Grade 10") }, ErrValidation, ""},
		"section of other grade": {func(r *Registration) { r.Section = strp("Altruism") }, ErrValidation, ""},
		"missing email":          {func(r *Registration) { r.Email = " " }, ErrValidation, ""},
		"username taken":         {func(r *Registration) { r.Username = "ANA" }, ErrDuplicate, "username"},
		"full name taken":        {func(r *Registration) { r.FullName = "ben reyes" }, ErrDuplicate, "fullName"},
		"email taken":            {func(r *Registration) { r.Email = "Admin@OliLab.app" }, ErrDuplicate, "email"},
		"lrn taken":              {func(r *Registration) { r.LRN = "123456789012" }, ErrDuplicate, "lrn"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRegistration()
			tc.edit(&r)
			s := fixture(t)
			next, _, err := Apply(s, RegisterUser{Data: r}, testEnv())
			require.ErrorIs(t, err, tc.want)
			assert.Len(t, next.Users, 3)
			if tc.dup != "" {
				var dup *DuplicateError
				require.True(t, errors.As(err, &dup))
				assert.Equal(t, tc.dup, dup.Field)
			}
		})
	}
}

func TestDecideUser(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, reg := mustApply(t, s, RegisterUser{Data: validRegistration()}, env)

	_, _, err := Apply(s, ApproveUser{Actor: memberID, ID: reg.ID}, env)
	require.ErrorIs(t, err, ErrForbidden)

	approved, out := mustApply(t, s, ApproveUser{Actor: adminID, ID: reg.ID}, env)
	assert.Equal(t, models.UserApproved, approved.Users[approved.UserIndex(reg.ID)].Status)
	require.Len(t, out.Emails, 1)
	assert.Equal(t, EmailAccountApproved, out.Emails[0].Type)
	assert.Equal(t, reg.ID, out.Emails[0].Recipients[0].ID)

	_, _, err = Apply(approved, DenyUser{Actor: adminID, ID: reg.ID}, env)
	require.ErrorIs(t, err, ErrInvalidState)

	denied, out := mustApply(t, s, DenyUser{Actor: adminID, ID: reg.ID}, env)
	assert.Equal(t, models.UserDenied, denied.Users[denied.UserIndex(reg.ID)].Status)
	assert.Equal(t, EmailAccountDenied, out.Emails[0].Type)
	_, err = Authenticate(&denied, "carla@school.ph", "hunter22")
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = Apply(s, ApproveUser{Actor: adminID, ID: "ghost"}, env)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 1}, env)
	s, _ = mustApply(t, s, ApproveBorrow{Actor: adminID, LogID: out.ID}, env)

	_, _, err := Apply(s, DeleteUser{Actor: adminID, ID: memberID}, env)
	require.ErrorIs(t, err, ErrConflict)

	_, _, err = Apply(s, DeleteUser{Actor: adminID, ID: adminID}, env)
	require.ErrorIs(t, err, ErrConflict, "last approved admin")

	s, _ = mustApply(t, s, DeleteUser{Actor: adminID, ID: otherID}, env)
	assert.Equal(t, -1, s.UserIndex(otherID))
}

func TestEditUser(t *testing.T) {
	env := testEnv()
	base := fixture(t)
	own := func(s models.State, id string) UserPatch {
		u := s.Users[s.UserIndex(id)]
		return UserPatch{Username: u.Username, FullName: u.FullName, Email: u.Email, LRN: u.LRN, GradeLevel: u.GradeLevel, Section: u.Section}
	}

	t.Run("member changes own password", func(t *testing.T) {
		p := own(base, memberID)
		p.Password = "newpass1"
		s, _ := mustApply(t, base, EditUser{Actor: memberID, ID: memberID, Patch: p}, env)
		u := s.Users[s.UserIndex(memberID)]
		assert.True(t, CheckPassword(u.Password, "newpass1"))
		assert.Equal(t, "ana", u.Username)
		assert.Equal(t, models.UserApproved, u.Status)

		s, _ = mustApply(t, base, EditUser{Actor: memberID, ID: memberID, Patch: UserPatch{Password: "newpass2"}}, env)
		u = s.Users[s.UserIndex(memberID)]
		assert.True(t, CheckPassword(u.Password, "newpass2"))
		assert.Equal(t, "Ana Cruz", u.FullName)
		assert.Equal(t, "123456789012", u.LRN)
		require.NotNil(t, u.GradeLevel)
		assert.Equal(t, "Grade 11", *u.GradeLevel)
	})

	t.Run("member cannot edit own profile fields", func(t *testing.T) {
		g12 := "Grade 12"
		edits := map[string]func(p *UserPatch){
			"username": func(p *UserPatch) { p.Username = "superana" },
			"fullName": func(p *UserPatch) { p.FullName = "Someone Else" },
			"email":    func(p *UserPatch) { p.Email = "ana.cruz@school.ph" },
			"lrn":      func(p *UserPatch) { p.LRN = "999999999999" },
			"grade":    func(p *UserPatch) { p.GradeLevel, p.Section = &g12, nil },
		}
		for name, edit := range edits {
			p := own(base, memberID)
			edit(&p)
			_, _, err := Apply(base, EditUser{Actor: memberID, ID: memberID, Patch: p}, env)
			assert.ErrorIs(t, err, ErrForbidden, name)
		}
	})

	t.Run("member cannot edit someone else", func(t *testing.T) {
		_, _, err := Apply(base, EditUser{Actor: memberID, ID: otherID, Patch: own(base, otherID)}, env)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("member cannot grant admin", func(t *testing.T) {
		p := own(base, memberID)
		p.IsAdmin = new(bool)
		*p.IsAdmin = true
		_, _, err := Apply(base, EditUser{Actor: memberID, ID: memberID, Patch: p}, env)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("uniqueness excludes self", func(t *testing.T) {
		p := own(base, memberID)
		p.Username = "ANA"
		_, _, err := Apply(base, EditUser{Actor: adminID, ID: memberID, Patch: p}, env)
		require.NoError(t, err)

		p.Email = "ben@school.ph"
		_, _, err = Apply(base, EditUser{Actor: adminID, ID: memberID, Patch: p}, env)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("promotion clears schooling", func(t *testing.T) {
		p := own(base, memberID)
		yes := true
		p.IsAdmin = &yes
		s, _ := mustApply(t, base, EditUser{Actor: adminID, ID: memberID, Patch: p}, env)
		u := s.Users[s.UserIndex(memberID)]
		assert.True(t, u.IsAdmin)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.Empty(t, u.LRN)
		assert.Nil(t, u.GradeLevel)
		assert.Nil(t, u.Section)
	})

	t.Run("last admin keeps rights", func(t *testing.T) {
		p := own(base, adminID)
		no := false
		p.IsAdmin = &no
		_, _, err := Apply(base, EditUser{Actor: adminID, ID: adminID, Patch: p}, env)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestAuthenticate(t *testing.T) {
	s := fixture(t)
	for _, id := range []string{"ana", "ANA", "Ana@School.ph", "123456789012", " ana "} {
		u, err := Authenticate(&s, id, "secret1")
		require.NoError(t, err, id)
		assert.Equal(t, memberID, u.ID)
	}
	_, err := Authenticate(&s, "ana", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Authenticate(&s, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrNotFound)
}
