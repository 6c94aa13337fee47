package inventory

import (
	"errors"
	"fmt"

	"olilab/models"
)

// CheckInvariants 校验账本：每件物品 0 ≤ available ≤ total，且
// total - available 恰好等于该物品所有 APPROVED 借出数量之和（已归还的记录是 RETURNED，不计入）。
// 返回所有违反项合并后的错误。
func CheckInvariants(s models.State) error {
	lent := make(map[string]int, len(s.Items))
	for _, l := range s.Logs {
		if l.IsOutstanding() {
			lent[l.ItemID] += l.Quantity
		}
	}
	var errs []error
	for _, it := range s.Items {
		if it.AvailableQuantity < 0 || it.AvailableQuantity > it.TotalQuantity {
			errs = append(errs, fmt.Errorf("item %s: available %d outside [0, %d]", it.ID, it.AvailableQuantity, it.TotalQuantity))
		}
		if got := it.Borrowed(); got != lent[it.ID] {
			errs = append(errs, fmt.Errorf("item %s: %d units lent out but approved logs account for %d", it.ID, got, lent[it.ID]))
		}
	}
	for _, l := range s.Logs {
		if l.Action != models.ActionReturn {
			continue
		}
		if i := s.LogIndex(l.RelatedLogID); i < 0 || s.Logs[i].Status != models.LogReturned {
			errs = append(errs, fmt.Errorf("return log %s does not close a RETURNED borrow log", l.ID))
		}
	}
	return errors.Join(errs...)
}
