package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TimestampLayout 与前端 ISO 字符串一致（毫秒 + Z）
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Env 是命令计算时唯一的外部输入：时钟、ID 生成、密码哈希。
// 测试里换成固定实现，使 Apply 完全可复现。
type Env struct {
	Now          func() time.Time
	NewID        func(prefix string) string
	HashPassword func(plain string) (string, error)
}

func DefaultEnv() Env {
	return Env{
		Now:          time.Now,
		NewID:        NewID,
		HashPassword: HashPassword,
	}
}

// NewID 生成 prefix_毫秒时间戳_随机串
func NewID(prefix string) string {
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), rnd[:12])
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 对比明文与存储的哈希
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (e Env) timestamp() string { return e.Now().UTC().Format(TimestampLayout) }
