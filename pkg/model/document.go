package model

import (
	"time"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// Document is a stored document in any collection
type Document struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	DocumentID  string          `gorm:"column:document_id;not null"`
	Collection  string          `gorm:"column:collection;not null"`
	Status      document.Status `gorm:"column:status;type:text;not null"`
	Data        JSONMap         `gorm:"column:data;type:jsonb;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	PublishedAt *time.Time      `gorm:"column:published_at"`
}

func (Document) TableName() string {
	return "documents"
}

// ToDocument converts the row into the store representation
func (d Document) ToDocument() document.Document {
	data := document.Fields(d.Data)
	if data == nil {
		data = document.Fields{}
	}
	return document.Document{
		ID:          d.ID,
		DocumentID:  d.DocumentID,
		Status:      d.Status,
		Data:        data,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		PublishedAt: d.PublishedAt,
	}
}
