package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// JournalService defines the interface for the submission journal
type JournalService interface {
	Record(ctx context.Context, sub *models.Submission) error
	List(ctx context.Context, limit int) ([]models.Submission, error)
	Get(ctx context.Context, id uint) (models.Submission, error)
}

// journalService implements the JournalService interface
type journalService struct {
	db *gorm.DB
}

// NewJournalService creates a new journal service
func NewJournalService(db *gorm.DB) JournalService {
	return &journalService{
		db: db,
	}
}

// Record stores a submission and its instructions
func (s *journalService) Record(ctx context.Context, sub *models.Submission) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

// List returns the most recent submissions, newest first
func (s *journalService) List(ctx context.Context, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	q := s.db.WithContext(ctx).Preload("Instructions").Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	result := q.Find(&subs)
	return subs, result.Error
}

// Get returns a single submission by ID
func (s *journalService) Get(ctx context.Context, id uint) (models.Submission, error) {
	var sub models.Submission
	result := s.db.WithContext(ctx).Preload("Instructions").First(&sub, id)
	return sub, result.Error
}
