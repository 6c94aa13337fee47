package inventory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"olilab/models"
)

var testClock = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// testEnv 固定时钟、自增 id、最低成本 bcrypt
func testEnv() Env {
	n := 0
	return Env{
		Now: func() time.Time { return testClock },
		NewID: func(prefix string) string {
			n++
			return fmt.Sprintf("%s_%d", prefix, n)
		},
		HashPassword: func(plain string) (string, error) {
			b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
			return string(b), err
		},
	}
}

const (
	adminID  = "adm"
	memberID = "u1"
	otherID  = "u2"
	beakerID = "it1"
)

func hashed(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

// fixture 一个管理员、两个已批准成员、一件 10 个库存的物品
func fixture(t *testing.T) models.State {
	t.Helper()
	g11, sec := models.Grade11, "Altruism"
	s := models.State{
		Items: []models.Item{{ID: beakerID, Name: "Beaker", Category: "Chemistry", TotalQuantity: 10, AvailableQuantity: 10}},
		Users: []models.User{
			{ID: adminID, Username: "admin", FullName: "Admin User", Email: "admin@olilab.app", Password: hashed(t, "secret1"), Role: models.RoleAdmin, IsAdmin: true, Status: models.UserApproved},
			{ID: memberID, Username: "ana", FullName: "Ana Cruz", Email: "ana@school.ph", Password: hashed(t, "secret1"), LRN: "123456789012", GradeLevel: &g11, Section: &sec, Role: models.RoleMember, Status: models.UserApproved},
			{ID: otherID, Username: "ben", FullName: "Ben Reyes", Email: "ben@school.ph", Password: hashed(t, "secret1"), Role: models.RoleMember, Status: models.UserApproved},
		},
	}
	s.Normalize()
	return s
}

func mustApply(t *testing.T, s models.State, cmd Command, env Env) (models.State, Outcome) {
	t.Helper()
	next, out, err := Apply(s, cmd, env)
	require.NoError(t, err, cmd.Name())
	require.NoError(t, CheckInvariants(next), cmd.Name())
	return next, out
}

func item(t *testing.T, s models.State, id string) models.Item {
	t.Helper()
	i := s.ItemIndex(id)
	require.GreaterOrEqual(t, i, 0, "item %s", id)
	return s.Items[i]
}

func logEntry(t *testing.T, s models.State, id string) models.LogEntry {
	t.Helper()
	i := s.LogIndex(id)
	require.GreaterOrEqual(t, i, 0, "log %s", id)
	return s.Logs[i]
}
