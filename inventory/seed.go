package inventory

import (
	"fmt"
	"time"

	"olilab/models"
)

const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "password"
)

// Seed 首次运行（或存储损坏）时的固定初始聚合：一个已批准的默认管理员、
// 四件物品、两条已批准借出。除生成的管理员 id、时间戳和密码哈希外，每次结果相同。
func Seed(env Env) (models.State, error) {
	hash, err := env.HashPassword(SeedAdminPassword)
	if err != nil {
		return models.State{}, fmt.Errorf("hash seed password: %w", err)
	}
	now := env.Now().UTC()
	adminID := fmt.Sprintf("admin_%d", now.UnixMilli())
	ts := func(ago time.Duration) string { return now.Add(-ago).Format(TimestampLayout) }

	s := models.State{
		Items: []models.Item{
			{ID: "item_1622548800000", Name: "Beaker 250ml", Category: "Chemistry", TotalQuantity: 20, AvailableQuantity: 18},
			{ID: "item_1622548800001", Name: "Test Tube Rack", Category: "Chemistry", TotalQuantity: 15, AvailableQuantity: 15},
			{ID: "item_1622548800002", Name: "Microscope", Category: "Biology", TotalQuantity: 5, AvailableQuantity: 3},
			{ID: "item_1622548800003", Name: "Sulfuric Acid (H2SO4)", Category: "Chemistry", TotalQuantity: 10, AvailableQuantity: 10},
		},
		Users: []models.User{{
			ID:       adminID,
			Username: SeedAdminUsername,
			FullName: "Admin User",
			Email:    "admin@olilab.app",
			Password: hash,
			Role:     models.RoleAdmin,
			IsAdmin:  true,
			Status:   models.UserApproved,
		}},
		Logs: []models.LogEntry{
			{ID: "log_1622548800002", UserID: adminID, ItemID: "item_1622548800002", Quantity: 2, Timestamp: ts(24 * time.Hour), Action: models.ActionBorrow, Status: models.LogApproved},
			{ID: "log_1622548800003", UserID: adminID, ItemID: "item_1622548800000", Quantity: 2, Timestamp: ts(48 * time.Hour), Action: models.ActionBorrow, Status: models.LogApproved, ReturnRequested: true},
		},
	}
	s.Normalize()
	return s, nil
}
