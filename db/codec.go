package db

import (
	"encoding/json"
	"fmt"

	"olilab/inventory"
	"olilab/models"
)

// EncodeState 聚合的存储格式：完整 JSON，字段名与前端一致
func EncodeState(s models.State) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState 解码并迁移旧数据。缺少 items 或 users 的数据视为损坏。
func DecodeState(b []byte) (models.State, error) {
	var probe struct {
		Items json.RawMessage `json:"items"`
		Users json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", inventory.ErrCorruptState, err)
	}
	if probe.Items == nil || probe.Users == nil {
		return models.State{}, fmt.Errorf("%w: missing items or users", inventory.ErrCorruptState)
	}
	var s models.State
	if err := json.Unmarshal(b, &s); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", inventory.ErrCorruptState, err)
	}
	s.Normalize()
	return s, nil
}
