package service

import (
	"fmt"
	"time"

	"qatrack/database"
	"qatrack/database/model"
	"qatrack/logger"
)

// AnonymousUser is recorded when no authenticated identity is present.
const AnonymousUser = "anonimo"

// AuditService appends and lists the immutable action/error trail.
type AuditService struct{}

// Record appends an audit entry. Best effort: a failure is logged and
// swallowed, it must never fail or block the primary request.
func (s *AuditService) Record(username, kind, detail, endpoint, ip string) {
	if username == "" {
		username = AnonymousUser
	}
	entry := model.AuditEntry{
		Username:  username,
		Kind:      kind,
		Detail:    detail,
		Endpoint:  endpoint,
		Ip:        ip,
		CreatedAt: time.Now(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		logger.Warningf("failed to append audit entry: user=%s kind=%s endpoint=%s: %v", username, kind, endpoint, err)
	}
}

// List returns one page of entries of the given kind, newest first, plus the
// total count for that kind.
func (s *AuditService) List(kind string, page, limit int) ([]model.AuditEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	db := database.GetDB()
	query := db.Model(&model.AuditEntry{}).Where("kind = ?", kind)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]model.AuditEntry, 0)
	err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CleanOldEntries removes entries older than the given number of days.
func (s *AuditService) CleanOldEntries(days int) error {
	if days <= 0 {
		return fmt.Errorf("days must be greater than 0")
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	result := database.GetDB().Where("created_at < ?", cutoff).Delete(&model.AuditEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("cleaned %d audit entries older than %d days", result.RowsAffected, days)
	}
	return nil
}
