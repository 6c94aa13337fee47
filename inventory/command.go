package inventory

import "olilab/models"

// Command 是一次状态迁移的意图。apply 在状态副本上校验并计算新状态；
// 返回错误时副本被丢弃，所以不会出现部分生效。
type Command interface {
	Name() string
	apply(s *models.State, env Env) (Outcome, error)
}

// Outcome 是一次成功迁移的附带结果
type Outcome struct {
	// ID 命令新建实体的 id（没有则为空）
	ID     string
	Emails []EmailEvent
}

// Apply 纯函数：apply(State, Command) -> (State', Outcome) | error。
// 输入状态不会被修改。
func Apply(s models.State, cmd Command, env Env) (models.State, Outcome, error) {
	next := s.Clone()
	out, err := cmd.apply(&next, env)
	if err != nil {
		return s, Outcome{}, err
	}
	return next, out, nil
}
