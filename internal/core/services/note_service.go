package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
)

type noteService struct {
	BaseService
	noteRepo portsrepo.NoteRepositoryFacade
}

// NewNoteService creates a new notes and tasks service.
func NewNoteService(noteRepo portsrepo.NoteRepositoryFacade, options ...ServiceOption) portssvc.NoteSvcFacade {
	return &noteService{
		BaseService: newBaseService(options),
		noteRepo:    noteRepo,
	}
}

var _ portssvc.NoteSvcFacade = (*noteService)(nil)

func (s *noteService) CreateNote(ctx context.Context, note domain.Note, actorID string) (*domain.Note, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	note.NoteID = 0
	note.Title = strings.TrimSpace(note.Title)
	note.TaskStatus = domain.TaskPending
	note.TaskCompletedAt = nil
	if note.TaskPriority == "" {
		note.TaskPriority = domain.PriorityNormal
	}
	if note.TaskDueDate != nil {
		d := domain.DateOf(*note.TaskDueDate)
		note.TaskDueDate = &d
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}
	note.AuditFields = domain.NewAuditFields(actorID, s.Now())

	id, err := s.noteRepo.SaveNote(ctx, note)
	if err != nil {
		s.LogError(ctx, err, "Failed to create note")
		return nil, err
	}
	note.NoteID = id
	return &note, nil
}

func (s *noteService) GetNote(ctx context.Context, noteID int64) (*domain.Note, error) {
	note, err := s.noteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to get note", slog.Int64("note_id", noteID))
		}
		return nil, err
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	filter.Page = filter.Page.Normalize()
	notes, err := s.noteRepo.ListNotes(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notes")
		return nil, err
	}
	return notes, nil
}

func (s *noteService) UpdateNote(ctx context.Context, noteID int64, patch domain.NotePatch, actorID string) (*domain.Note, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}
	note, err := s.noteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	patch.Apply(note)
	note.Title = strings.TrimSpace(note.Title)
	if err := note.Validate(); err != nil {
		return nil, err
	}
	note.LastUpdatedAt = s.Now()
	note.LastUpdatedBy = actorID

	if err := s.noteRepo.UpdateNote(ctx, *note); err != nil {
		s.LogError(ctx, err, "Failed to update note", slog.Int64("note_id", noteID))
		return nil, err
	}
	return note, nil
}

func (s *noteService) DeleteNote(ctx context.Context, noteID int64, actorID string) error {
	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	if err := s.noteRepo.DeleteNote(ctx, noteID); err != nil {
		if !apperrors.IsBusiness(err) {
			s.LogError(ctx, err, "Failed to delete note", slog.Int64("note_id", noteID))
		}
		return err
	}
	return nil
}

// CompleteTask marks a task note completed.
func (s *noteService) CompleteTask(ctx context.Context, noteID int64, actorID string) (*domain.Note, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	note, err := s.noteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsTask {
		return nil, fmt.Errorf("%w: note %d is not a task", apperrors.ErrInvalidState, noteID)
	}
	if note.TaskStatus == domain.TaskCompleted {
		return nil, fmt.Errorf("%w: task %d is already completed", apperrors.ErrInvalidState, noteID)
	}

	now := s.Now()
	note.TaskStatus = domain.TaskCompleted
	note.TaskCompletedAt = &now
	note.LastUpdatedAt = now
	note.LastUpdatedBy = actorID
	if err := s.noteRepo.UpdateNote(ctx, *note); err != nil {
		s.LogError(ctx, err, "Failed to complete task", slog.Int64("note_id", noteID))
		return nil, err
	}
	return note, nil
}
