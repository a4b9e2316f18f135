package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// ProblemNoteRepository defines data operations for per-user problem notes.
type ProblemNoteRepository interface {
	GetByUserAndProblem(ctx context.Context, userID, problemID uint) (models.ProblemNote, error)
	Upsert(ctx context.Context, note *models.ProblemNote) error
}

type problemNoteRepository struct {
	db *gorm.DB
}

// NewProblemNoteRepository instantiates the repository.
func NewProblemNoteRepository(db *gorm.DB) ProblemNoteRepository {
	return &problemNoteRepository{db: db}
}

func (r *problemNoteRepository) GetByUserAndProblem(ctx context.Context, userID, problemID uint) (models.ProblemNote, error) {
	var note models.ProblemNote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("problem_id = ?", problemID).
		First(&note).Error
	if err != nil {
		return models.ProblemNote{}, err
	}

	return note, nil
}

func (r *problemNoteRepository) Upsert(ctx context.Context, note *models.ProblemNote) error {
	existing, err := r.GetByUserAndProblem(ctx, note.UserID, note.ProblemID)
	if err == nil {
		existing.Body = note.Body
		if saveErr := r.db.WithContext(ctx).Save(&existing).Error; saveErr != nil {
			return saveErr
		}
		*note = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.WithContext(ctx).Create(note).Error
}
