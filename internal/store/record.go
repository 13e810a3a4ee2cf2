package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"glot.fit/lingocart/internal/fragment"
	"glot.fit/lingocart/internal/pipeline"
)

// ErrRecordNotFound is returned when a record UUID does not exist.
var ErrRecordNotFound = errors.New("translation record not found")

// TranslationRecord is the audit trail for one document translation:
// source and target documents, language pair, status, provider, and
// the full fragment list for validation and re-editing.
type TranslationRecord struct {
	ID                int64     `gorm:"primaryKey" json:"-"`
	RecordUUID        string    `gorm:"type:uuid;uniqueIndex;not null" json:"record_uuid"`
	ContentType       string    `gorm:"size:32;not null;index" json:"content_type"`
	SourceLang        string    `gorm:"size:16;not null" json:"source_lang"`
	TargetLang        string    `gorm:"size:16;not null;index" json:"target_lang"`
	SourceContent     string    `gorm:"type:text;not null" json:"source_content"`
	TranslatedContent string    `gorm:"type:text" json:"translated_content"`
	Status            string    `gorm:"size:32;not null;index" json:"status"`
	Provider          string    `gorm:"size:64" json:"provider,omitempty"`
	Fragments         []byte    `gorm:"type:jsonb" json:"-"`
	IssueCount        int       `gorm:"not null;default:0" json:"issue_count"`
	RetryCount        int       `gorm:"not null;default:0" json:"retry_count"`
	ErrorMessage      string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SaveResult persists a finished pipeline result and returns the
// record UUID.
func (s *Store) SaveResult(ctx context.Context, result *pipeline.DocumentResult, status pipeline.Status) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("store is not initialized")
	}
	if result == nil {
		return "", fmt.Errorf("result is nil")
	}

	fragments, err := json.Marshal(result.Fragments)
	if err != nil {
		return "", fmt.Errorf("encode fragments: %w", err)
	}

	record := TranslationRecord{
		RecordUUID:        uuid.NewString(),
		ContentType:       result.Format,
		SourceLang:        result.SourceLang,
		TargetLang:        result.TargetLang,
		SourceContent:     result.SourceContent,
		TranslatedContent: result.TranslatedContent,
		Status:            string(status),
		Provider:          result.Provider,
		Fragments:         fragments,
		IssueCount:        len(result.Issues),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("insert translation record: %w", err)
	}
	return record.RecordUUID, nil
}

// GetRecord loads one record by UUID.
func (s *Store) GetRecord(ctx context.Context, recordUUID string) (*TranslationRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not initialized")
	}

	var record TranslationRecord
	err := s.db.WithContext(ctx).
		Where("record_uuid = ?", strings.TrimSpace(recordUUID)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("query translation record: %w", err)
	}
	return &record, nil
}

// ListRecords returns records filtered by status and target language,
// newest first. Empty filters match everything.
func (s *Store) ListRecords(ctx context.Context, status, targetLang string, limit int) ([]TranslationRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Model(&TranslationRecord{}).Order("created_at DESC").Limit(limit)
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", strings.ToUpper(trimmed))
	}
	if trimmed := strings.TrimSpace(targetLang); trimmed != "" {
		query = query.Where("target_lang = ?", strings.ToLower(trimmed))
	}

	var records []TranslationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list translation records: %w", err)
	}
	return records, nil
}

// UpdateRecordStatus transitions a record and, for failures, appends
// the error message and bumps the retry counter.
func (s *Store) UpdateRecordStatus(ctx context.Context, recordUUID string, status pipeline.Status, errorMessage string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not initialized")
	}

	updates := map[string]any{"status": string(status)}
	if status == pipeline.StatusFailed {
		updates["error_message"] = errorMessage
		updates["retry_count"] = gorm.Expr("retry_count + 1")
	}

	result := s.db.WithContext(ctx).
		Model(&TranslationRecord{}).
		Where("record_uuid = ?", strings.TrimSpace(recordUUID)).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update translation record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RecordFragments decodes the stored fragment list of a record.
func (r *TranslationRecord) RecordFragments() ([]fragment.Fragment, error) {
	if len(r.Fragments) == 0 {
		return nil, nil
	}
	var frags []fragment.Fragment
	if err := json.Unmarshal(r.Fragments, &frags); err != nil {
		return nil, fmt.Errorf("decode record fragments: %w", err)
	}
	return frags, nil
}
