package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists one Record per user. Load never fails: missing or
// unreadable data yields an empty Record.
type Store interface {
	Load(ctx context.Context, userID int64) Record
	Save(ctx context.Context, userID int64, record Record) error
	ListNotifiable(ctx context.Context) ([]StoredUser, error)
}

type SQLRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

func (r *SQLRepository) Load(ctx context.Context, userID int64) Record {
	var row UserRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Int64("user_id", userID).Msg("failed to load user record")
		}
		return Record{}
	}

	return decodeRecord(userID, []byte(row.Data))
}

func (r *SQLRepository) Save(ctx context.Context, userID int64, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding user record: %w", err)
	}

	row := UserRecord{
		UserID:               userID,
		Data:                 string(data),
		NotificationsEnabled: record.Notifications.Enabled,
		UpdatedAt:            r.now().UTC(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "notifications_enabled", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *SQLRepository) ListNotifiable(ctx context.Context) ([]StoredUser, error) {
	var rows []UserRecord
	err := r.db.WithContext(ctx).
		Where("notifications_enabled = ?", true).
		Order("user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]StoredUser, 0, len(rows))
	for _, row := range rows {
		record := decodeRecord(row.UserID, []byte(row.Data))
		if !record.Notifications.Enabled {
			continue
		}
		users = append(users, StoredUser{UserID: row.UserID, Record: record})
	}

	return users, nil
}

func decodeRecord(userID int64, data []byte) Record {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("discarding corrupted user record")
		return Record{}
	}
	return record
}
