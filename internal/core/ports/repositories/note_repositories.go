package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// NoteReader defines read operations for notes and tasks
type NoteReader interface {
	FindNoteByID(ctx context.Context, noteID int64) (*domain.Note, error)

	// ListNotes retrieves notes matching the filter, pinned first.
	ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error)

	// CountPendingTasksDue counts open tasks due on or before the date.
	CountPendingTasksDue(ctx context.Context, asOf time.Time) (int, error)
}

// NoteWriter defines write operations for notes and tasks
type NoteWriter interface {
	SaveNote(ctx context.Context, note domain.Note) (int64, error)
	UpdateNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, noteID int64) error
}

// NoteRepositoryFacade combines all note-related repository interfaces
type NoteRepositoryFacade interface {
	NoteReader
	NoteWriter
}
