package db

import (
	"context"
	"errors"
	"fmt"

	"olilab/inventory"
	"olilab/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotID 整个系统只有一行快照
const snapshotID = 1

var ErrStaleSnapshot = errors.New("stale snapshot")

// Repo 把聚合存成 postgres 里的一行 jsonb
type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func (r *Repo) Load(ctx context.Context) (models.State, error) {
	var snap models.Snapshot
	if err := r.DB.WithContext(ctx).First(&snap, "id = ?", snapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.State{}, inventory.ErrNoState
		}
		return models.State{}, err
	}
	s, err := DecodeState(snap.Payload)
	if err != nil {
		// 损坏时也带回版本号，重新种子后版本不回退
		return models.State{Version: snap.Version}, err
	}
	s.Version = snap.Version
	return s, nil
}

// Save 锁住快照行后覆盖；不允许旧版本覆盖新版本
func (r *Repo) Save(ctx context.Context, s models.State) error {
	payload, err := EncodeState(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Snapshot
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cur, "id = ?", snapshotID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		case cur.Version > s.Version:
			return fmt.Errorf("%w: stored version %d, saving %d", ErrStaleSnapshot, cur.Version, s.Version)
		}

		snap := models.Snapshot{ID: snapshotID, Version: s.Version, Payload: payload}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
		}).Create(&snap).Error
	})
}
