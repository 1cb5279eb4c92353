package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ContactSubmission 是一次联系表单提交的只写记录。
// SubmittedAt 由数据库在插入时填充，服务端不写入该字段。
type ContactSubmission struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Email       string    `gorm:"size:255;not null"`
	Company     string    `gorm:"size:255;not null"`
	Phone       string    `gorm:"size:50;not null"`
	Service     string    `gorm:"size:255;not null"`
	Timeline    string    `gorm:"size:100;not null"`
	Message     string    `gorm:"type:text;not null"`
	SubmittedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName 返回自定义表名
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// ContactSubmissionStore appends submissions. There is no update path.
type ContactSubmissionStore struct {
	db *gorm.DB
}

// NewContactSubmissionStore wraps an open connection.
func NewContactSubmissionStore(gdb *gorm.DB) *ContactSubmissionStore {
	return &ContactSubmissionStore{db: gdb}
}

// Insert writes one row and fills record.ID.
func (s *ContactSubmissionStore) Insert(ctx context.Context, record *ContactSubmission) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	return s.db.WithContext(ctx).Omit("SubmittedAt").Create(record).Error
}

// Delete removes a row by id. Only the operator health check uses it.
func (s *ContactSubmissionStore) Delete(ctx context.Context, id uint) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	return s.db.WithContext(ctx).Delete(&ContactSubmission{}, id).Error
}
