package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNoteRepository struct {
	BaseRepository
}

func newPgxNoteRepository(pool *pgxpool.Pool) *PgxNoteRepository {
	return &PgxNoteRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NoteRepositoryFacade = (*PgxNoteRepository)(nil)

const noteColumns = `note_id, title, content, category, color, is_pinned, is_archived, is_task, task_status, task_priority,
	task_due_date, task_completed_at, related_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanNote(row rowScanner) (domain.Note, error) {
	var n domain.Note
	err := row.Scan(
		&n.NoteID, &n.Title, &n.Content, &n.Category, &n.Color, &n.IsPinned, &n.IsArchived, &n.IsTask,
		&n.TaskStatus, &n.TaskPriority, &n.TaskDueDate, &n.TaskCompletedAt, &n.RelatedAccountID,
		&n.CreatedAt, &n.CreatedBy, &n.LastUpdatedAt, &n.LastUpdatedBy,
	)
	return n, err
}

func (r *PgxNoteRepository) SaveNote(ctx context.Context, n domain.Note) (int64, error) {
	query := `
		INSERT INTO notes (title, content, category, color, is_pinned, is_archived, is_task, task_status, task_priority,
			task_due_date, related_account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING note_id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		n.Title, n.Content, n.Category, n.Color, n.IsPinned, n.IsArchived, n.IsTask, n.TaskStatus, n.TaskPriority,
		n.TaskDueDate, n.RelatedAccountID, n.CreatedAt, n.CreatedBy, n.LastUpdatedAt, n.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, dbError(err, "save note %q", n.Title)
	}
	return id, nil
}

func (r *PgxNoteRepository) FindNoteByID(ctx context.Context, noteID int64) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE note_id = $1;`
	n, err := scanNote(r.Pool.QueryRow(ctx, query, noteID))
	if err != nil {
		return nil, dbError(err, "find note %d", noteID)
	}
	return &n, nil
}

// ListNotes returns pinned notes first, then the most recently updated.
func (r *PgxNoteRepository) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	var w whereClause
	if filter.TasksOnly {
		w.add("is_task = TRUE")
	}
	if !filter.IncludeArchived {
		w.add("is_archived = FALSE")
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(lower(title) LIKE ? OR lower(content) LIKE ?)", p, p)
	}
	page := filter.Page.Normalize()
	query := `SELECT ` + noteColumns + ` FROM notes` + w.String() +
		` ORDER BY is_pinned DESC, last_updated_at DESC, note_id DESC` + w.page(page.Limit, page.Offset)

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError(err, "list notes")
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, dbError(err, "scan note row")
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate note rows")
	}
	return notes, nil
}

func (r *PgxNoteRepository) UpdateNote(ctx context.Context, n domain.Note) error {
	query := `
		UPDATE notes
		SET title = $2, content = $3, category = $4, color = $5, is_pinned = $6, is_archived = $7, is_task = $8,
			task_status = $9, task_priority = $10, task_due_date = $11, task_completed_at = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE note_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		n.NoteID, n.Title, n.Content, n.Category, n.Color, n.IsPinned, n.IsArchived, n.IsTask,
		n.TaskStatus, n.TaskPriority, n.TaskDueDate, n.TaskCompletedAt, n.LastUpdatedAt, n.LastUpdatedBy,
	)
	if err != nil {
		return dbError(err, "update note %d", n.NoteID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxNoteRepository) DeleteNote(ctx context.Context, noteID int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM notes WHERE note_id = $1;`, noteID)
	if err != nil {
		return dbError(err, "delete note %d", noteID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountPendingTasksDue counts open, unarchived tasks due on or before asOf.
func (r *PgxNoteRepository) CountPendingTasksDue(ctx context.Context, asOf time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notes
		WHERE is_task = TRUE AND task_status = 'pending' AND is_archived = FALSE
			AND task_due_date IS NOT NULL AND task_due_date <= $1;
	`
	var n int
	if err := r.Pool.QueryRow(ctx, query, domain.DateOf(asOf)).Scan(&n); err != nil {
		return 0, dbError(err, "count pending tasks")
	}
	return n, nil
}
