// app/bootstrap.go
package app

import (
	"olilab/inventory"
	"olilab/models"

	"github.com/rs/zerolog"
)

// CheckAdmins 启动时检查管理员账号：没有已批准管理员时报错，
// 种子管理员仍在使用默认密码时提醒修改。
func CheckAdmins(s models.State, log zerolog.Logger) {
	approved := 0
	for _, u := range s.Users {
		if !u.IsApprovedAdmin() {
			continue
		}
		approved++
		if u.Username == inventory.SeedAdminUsername && inventory.CheckPassword(u.Password, inventory.SeedAdminPassword) {
			log.Warn().Str("user", u.ID).Msg("[BOOTSTRAP] default admin still uses the seed password, change it via PUT /api/users/:id")
		}
	}
	if approved == 0 {
		log.Error().Msg("[BOOTSTRAP] no approved admin exists, nobody can approve registrations")
		return
	}
	log.Info().Int("admins", approved).Msg("[BOOTSTRAP] approved admins present")
}
