package db

import (
	"context"
	"sync"

	"olilab/inventory"
	"olilab/models"
)

// MemoryStore 进程内存储；同样走编码/解码，和真实存储的往返行为一致
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	version int64
	saves   int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// NewMemoryStoreWith 预置原始数据（用于模拟旧格式或损坏的数据）
func NewMemoryStoreWith(payload []byte) *MemoryStore {
	return &MemoryStore{payload: payload}
}

func (m *MemoryStore) Load(_ context.Context) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return models.State{}, inventory.ErrNoState
	}
	s, err := DecodeState(m.payload)
	if err != nil {
		return models.State{}, err
	}
	s.Version = m.version
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s models.State) error {
	b, err := EncodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload, m.version = b, s.Version
	m.saves++
	return nil
}

// Saves 保存次数
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
