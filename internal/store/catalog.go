package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

// CatalogField is one translatable string field of a commerce entity
// (product or category), as enumerated from the platform.
type CatalogField struct {
	ID         int64  `gorm:"primaryKey"`
	EntityUUID string `gorm:"type:uuid;not null;index:idx_catalog_entity_field,unique,priority:1"`
	Kind       string `gorm:"size:32;not null;index"` // product | category
	Field      string `gorm:"size:64;not null;index:idx_catalog_entity_field,unique,priority:2"`
	SourceLang string `gorm:"size:16;not null"`
	Value      string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FieldTranslation is the per-field write-back: one completed
// translation of a catalog field into one target language.
type FieldTranslation struct {
	ID         int64  `gorm:"primaryKey"`
	EntityUUID string `gorm:"type:uuid;not null;index:idx_field_translation,unique,priority:1"`
	Field      string `gorm:"size:64;not null;index:idx_field_translation,unique,priority:2"`
	TargetLang string `gorm:"size:16;not null;index:idx_field_translation,unique,priority:3"`
	Value      string `gorm:"type:text;not null"`
	Provider   string `gorm:"size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpsertCatalogField registers or refreshes one source field.
func (s *Store) UpsertCatalogField(ctx context.Context, field CatalogField) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not initialized")
	}
	field.EntityUUID = strings.TrimSpace(field.EntityUUID)
	field.Field = strings.TrimSpace(field.Field)
	if field.EntityUUID == "" || field.Field == "" {
		return fmt.Errorf("entity uuid and field name are required")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_uuid"}, {Name: "field"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "source_lang", "kind", "updated_at"}),
	}).Create(&field).Error
	if err != nil {
		return fmt.Errorf("upsert catalog field: %w", err)
	}
	return nil
}

// ListUntranslated enumerates catalog fields of one kind that have no
// completed translation for the target language yet.
func (s *Store) ListUntranslated(ctx context.Context, kind, targetLang string, limit int) ([]CatalogField, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not initialized")
	}
	targetLang = strings.ToLower(strings.TrimSpace(targetLang))
	if targetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if limit <= 0 {
		limit = 100
	}

	query := s.db.WithContext(ctx).
		Model(&CatalogField{}).
		Where(`NOT EXISTS (
			SELECT 1 FROM field_translations ft
			WHERE ft.entity_uuid = catalog_fields.entity_uuid
			  AND ft.field = catalog_fields.field
			  AND ft.target_lang = ?
		)`, targetLang).
		Order("catalog_fields.id").
		Limit(limit)
	if trimmed := strings.ToLower(strings.TrimSpace(kind)); trimmed != "" {
		query = query.Where("kind = ?", trimmed)
	}

	var fields []CatalogField
	if err := query.Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("list untranslated catalog fields: %w", err)
	}
	return fields, nil
}

// ListCatalogFields enumerates catalog fields regardless of
// translation state; forced sweeps use it to retranslate everything.
func (s *Store) ListCatalogFields(ctx context.Context, kind string, limit int) ([]CatalogField, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := s.db.WithContext(ctx).
		Model(&CatalogField{}).
		Order("catalog_fields.id").
		Limit(limit)
	if trimmed := strings.ToLower(strings.TrimSpace(kind)); trimmed != "" {
		query = query.Where("kind = ?", trimmed)
	}

	var fields []CatalogField
	if err := query.Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("list catalog fields: %w", err)
	}
	return fields, nil
}

// WriteFieldTranslation records a completed field translation.
func (s *Store) WriteFieldTranslation(ctx context.Context, translation FieldTranslation) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not initialized")
	}
	translation.EntityUUID = strings.TrimSpace(translation.EntityUUID)
	translation.Field = strings.TrimSpace(translation.Field)
	translation.TargetLang = strings.ToLower(strings.TrimSpace(translation.TargetLang))
	if translation.EntityUUID == "" || translation.Field == "" || translation.TargetLang == "" {
		return fmt.Errorf("entity uuid, field name, and target language are required")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_uuid"}, {Name: "field"}, {Name: "target_lang"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "provider", "updated_at"}),
	}).Create(&translation).Error
	if err != nil {
		return fmt.Errorf("write field translation: %w", err)
	}
	return nil
}
