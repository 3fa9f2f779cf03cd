package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// NoteSvcFacade manages notes and lightweight tasks
type NoteSvcFacade interface {
	CreateNote(ctx context.Context, note domain.Note, actorID string) (*domain.Note, error)
	GetNote(ctx context.Context, noteID int64) (*domain.Note, error)
	ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error)
	UpdateNote(ctx context.Context, noteID int64, patch domain.NotePatch, actorID string) (*domain.Note, error)
	DeleteNote(ctx context.Context, noteID int64, actorID string) error
	CompleteTask(ctx context.Context, noteID int64, actorID string) (*domain.Note, error)
}
