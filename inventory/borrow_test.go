package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olilab/models"
)

func TestBorrowLifecycle(t *testing.T) {
	env := testEnv()
	s := fixture(t)

	s, out := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 3}, env)
	logID := out.ID
	l := logEntry(t, s, logID)
	assert.Equal(t, models.LogPending, l.Status)
	assert.Equal(t, models.ActionBorrow, l.Action)
	assert.Equal(t, 10, item(t, s, beakerID).AvailableQuantity, "request must not reserve stock")
	require.NotEmpty(t, s.Notifications)
	assert.Equal(t, models.NotifyNewBorrowRequest, s.Notifications[0].Type)
	assert.Equal(t, "New borrow request from Ana Cruz for 3x Beaker.", s.Notifications[0].Message)
	assert.Equal(t, logID, s.Notifications[0].RelatedLogID)

	s, _ = mustApply(t, s, ApproveBorrow{Actor: adminID, LogID: logID}, env)
	assert.Equal(t, models.LogApproved, logEntry(t, s, logID).Status)
	assert.Equal(t, 7, item(t, s, beakerID).AvailableQuantity)
	assert.Equal(t, models.NotifyBorrowRequestApproved, s.Notifications[0].Type)

	s, _ = mustApply(t, s, RequestReturn{Actor: memberID, LogID: logID}, env)
	assert.True(t, logEntry(t, s, logID).ReturnRequested)
	assert.Equal(t, models.NotifyReturnRequest, s.Notifications[0].Type)
	assert.Equal(t, "Ana Cruz requested to return 3x Beaker.", s.Notifications[0].Message)

	s, out = mustApply(t, s, CompleteReturn{Actor: adminID, LogID: logID, AdminNotes: " all intact "}, env)
	assert.Equal(t, models.LogReturned, logEntry(t, s, logID).Status)
	assert.Equal(t, 10, item(t, s, beakerID).AvailableQuantity)

	ret := logEntry(t, s, out.ID)
	assert.Equal(t, models.ActionReturn, ret.Action)
	assert.Equal(t, logID, ret.RelatedLogID)
	assert.Equal(t, 3, ret.Quantity)
	assert.Equal(t, "all intact", ret.AdminNotes)
	assert.Empty(t, ret.Status)
	assert.Equal(t, out.ID, s.Logs[0].ID, "logs are newest first")
}

func TestApproveRechecksStock(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s.Items[0].TotalQuantity, s.Items[0].AvailableQuantity = 5, 5

	// 两个待审申请可以争同一批库存
	s, a := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 3}, env)
	s, b := mustApply(t, s, RequestBorrow{Actor: otherID, UserID: otherID, ItemID: beakerID, Quantity: 3}, env)
	assert.Equal(t, 5, item(t, s, beakerID).AvailableQuantity)

	s, _ = mustApply(t, s, ApproveBorrow{Actor: adminID, LogID: a.ID}, env)
	assert.Equal(t, 2, item(t, s, beakerID).AvailableQuantity)

	next, _, err := Apply(s, ApproveBorrow{Actor: adminID, LogID: b.ID}, env)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, s, next, "failed command leaves state untouched")
	assert.Equal(t, models.LogPending, logEntry(t, next, b.ID).Status)

	// 拒绝后可以继续处理
	s, _ = mustApply(t, s, DenyBorrow{Actor: adminID, LogID: b.ID, Reason: "out of stock"}, env)
	assert.Equal(t, models.LogDenied, logEntry(t, s, b.ID).Status)
}

func TestDenyBorrow(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 1}, env)

	_, _, err := Apply(s, DenyBorrow{Actor: adminID, LogID: out.ID, Reason: "   "}, env)
	require.ErrorIs(t, err, ErrValidation)

	s, _ = mustApply(t, s, DenyBorrow{Actor: adminID, LogID: out.ID, Reason: "Lab closed"}, env)
	l := logEntry(t, s, out.ID)
	assert.Equal(t, models.LogDenied, l.Status)
	assert.Equal(t, "Lab closed", l.AdminNotes)
	assert.Equal(t, models.NotifyBorrowRequestDenied, s.Notifications[0].Type)
	assert.Equal(t, 10, item(t, s, beakerID).AvailableQuantity)

	// DENIED 是终态
	for _, cmd := range []Command{
		ApproveBorrow{Actor: adminID, LogID: out.ID},
		DenyBorrow{Actor: adminID, LogID: out.ID, Reason: "again"},
		RequestReturn{Actor: memberID, LogID: out.ID},
		CompleteReturn{Actor: adminID, LogID: out.ID},
	} {
		_, _, err := Apply(s, cmd, env)
		assert.ErrorIs(t, err, ErrInvalidState, cmd.Name())
	}
}

func TestRequestBorrowRejects(t *testing.T) {
	cases := []struct {
		name string
		cmd  RequestBorrow
		want error
	}{
		{"unknown user", RequestBorrow{Actor: adminID, UserID: "ghost", ItemID: beakerID, Quantity: 1}, ErrNotFound},
		{"unknown item", RequestBorrow{Actor: memberID, UserID: memberID, ItemID: "nope", Quantity: 1}, ErrNotFound},
		{"zero quantity", RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 0}, ErrValidation},
		{"negative quantity", RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: -2}, ErrValidation},
		{"over stock", RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 11}, ErrInsufficientStock},
		{"on behalf of someone else", RequestBorrow{Actor: otherID, UserID: memberID, ItemID: beakerID, Quantity: 1}, ErrForbidden},
		{"unknown actor", RequestBorrow{Actor: "ghost", UserID: memberID, ItemID: beakerID, Quantity: 1}, ErrForbidden},
		{"member naming an unknown user", RequestBorrow{Actor: memberID, UserID: "ghost", ItemID: beakerID, Quantity: 1}, ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := fixture(t)
			next, _, err := Apply(s, tc.cmd, testEnv())
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, s, next)
		})
	}
}

func TestDeletedBorrowerCannotBeApproved(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: otherID, UserID: otherID, ItemID: beakerID, Quantity: 4}, env)
	s, _ = mustApply(t, s, DeleteUser{Actor: adminID, ID: otherID}, env)

	l := logEntry(t, s, out.ID)
	assert.Equal(t, models.LogDenied, l.Status)
	assert.NotEmpty(t, l.AdminNotes)

	next, _, err := Apply(s, ApproveBorrow{Actor: adminID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 10, item(t, next, beakerID).AvailableQuantity)

	// 旧数据：用户已不存在但申请仍是 PENDING
	legacy := fixture(t)
	legacy, out = mustApply(t, legacy, RequestBorrow{Actor: otherID, UserID: otherID, ItemID: beakerID, Quantity: 4}, env)
	legacy.Users = legacy.Users[:legacy.UserIndex(otherID)]
	_, _, err = Apply(legacy, ApproveBorrow{Actor: adminID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.LogPending, logEntry(t, legacy, out.ID).Status)
	assert.Equal(t, 10, item(t, legacy, beakerID).AvailableQuantity)
}

func TestAdminMayBorrowOnBehalf(t *testing.T) {
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: adminID, UserID: memberID, ItemID: beakerID, Quantity: 2}, testEnv())
	assert.Equal(t, memberID, logEntry(t, s, out.ID).UserID)
}

func TestReturnTransitions(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 2}, env)

	_, _, err := Apply(s, RequestReturn{Actor: memberID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrInvalidState, "pending borrow cannot be returned")
	_, _, err = Apply(s, CompleteReturn{Actor: adminID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrInvalidState)

	s, _ = mustApply(t, s, ApproveBorrow{Actor: adminID, LogID: out.ID}, env)

	_, _, err = Apply(s, RequestReturn{Actor: otherID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrForbidden)

	// 重复申请归还效果相同，但每次都有通知
	s, _ = mustApply(t, s, RequestReturn{Actor: memberID, LogID: out.ID}, env)
	before := len(s.Notifications)
	s, _ = mustApply(t, s, RequestReturn{Actor: memberID, LogID: out.ID}, env)
	assert.True(t, logEntry(t, s, out.ID).ReturnRequested)
	assert.Len(t, s.Notifications, before+1)

	// 不要求先申请归还
	_, _, err = Apply(s, CompleteReturn{Actor: memberID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrForbidden)
	s, _ = mustApply(t, s, CompleteReturn{Actor: adminID, LogID: out.ID}, env)

	_, _, err = Apply(s, CompleteReturn{Actor: adminID, LogID: out.ID}, env)
	require.ErrorIs(t, err, ErrInvalidState, "a borrow is returned once")
	_, _, err = Apply(s, CompleteReturn{Actor: adminID, LogID: s.Logs[0].ID}, env)
	require.ErrorIs(t, err, ErrNotFound, "RETURN logs are not borrow logs")
}

func TestCompleteReturnClampsLegacyStock(t *testing.T) {
	s := fixture(t)
	// 旧数据：借出记录存在但库存已是满的
	s.Logs = []models.LogEntry{{ID: "old", UserID: memberID, ItemID: beakerID, Quantity: 4, Action: models.ActionBorrow, Status: models.LogApproved}}
	next, _, err := Apply(s, CompleteReturn{Actor: adminID, LogID: "old"}, testEnv())
	require.NoError(t, err)
	assert.Equal(t, 10, item(t, next, beakerID).AvailableQuantity)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	env := testEnv()
	s := fixture(t)
	s, out := mustApply(t, s, RequestBorrow{Actor: memberID, UserID: memberID, ItemID: beakerID, Quantity: 3}, env)
	snapshot := s.Clone()

	_, _ = mustApply(t, s, ApproveBorrow{Actor: adminID, LogID: out.ID}, env)
	assert.Equal(t, snapshot, s)
}
