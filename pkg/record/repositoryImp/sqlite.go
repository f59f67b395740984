package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farmdash/entities"
	"farmdash/pkg/record/repository"
)

type sqliteRepo struct{ db *gorm.DB }

func NewSQLite(db *gorm.DB) repository.RecordRepository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Save(ctx context.Context, browserID string, rec entities.FarmRecord) error {
	row := rec.Clone()
	row.ID = entities.RecordID
	row.BrowserID = browserID
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "browser_id"}},
			UpdateAll: true,
		}).Create(&row).Error
	})
}

func (r *sqliteRepo) Load(ctx context.Context, browserID string) (*entities.FarmRecord, error) {
	var out entities.FarmRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND browser_id = ?", entities.RecordID, browserID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqliteRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
