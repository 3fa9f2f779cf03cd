package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateNote_DefaultsTaskFields(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := services.NewNoteService(repo, services.WithClock(fixedClock))
	due := day(2024, 3, 20).Add(13 * time.Hour)

	repo.On("SaveNote", mock.Anything, mock.MatchedBy(func(n domain.Note) bool {
		return n.TaskStatus == domain.TaskPending && n.TaskPriority == domain.PriorityNormal &&
			n.TaskDueDate != nil && n.TaskDueDate.Equal(day(2024, 3, 20)) && n.CreatedBy == actor
	})).Return(int64(4), nil).Once()

	note, err := svc.CreateNote(context.Background(), domain.Note{Title: " Order paper ", IsTask: true, TaskDueDate: &due}, actor)

	require.NoError(t, err)
	assert.Equal(t, int64(4), note.NoteID)
	assert.Equal(t, "Order paper", note.Title)
	repo.AssertExpectations(t)
}

func TestCompleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("plain note is not a task", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("FindNoteByID", ctx, int64(1)).Return(&domain.Note{NoteID: 1, TaskStatus: domain.TaskPending}, nil).Once()
		_, err := services.NewNoteService(repo).CompleteTask(ctx, 1, actor)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("completed task cannot complete again", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("FindNoteByID", ctx, int64(2)).Return(&domain.Note{NoteID: 2, IsTask: true, TaskStatus: domain.TaskCompleted}, nil).Once()
		_, err := services.NewNoteService(repo).CompleteTask(ctx, 2, actor)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("pending task completes", func(t *testing.T) {
		repo := new(MockNoteRepository)
		repo.On("FindNoteByID", ctx, int64(3)).Return(&domain.Note{NoteID: 3, IsTask: true, TaskStatus: domain.TaskPending}, nil).Once()
		repo.On("UpdateNote", ctx, mock.MatchedBy(func(n domain.Note) bool {
			return n.TaskStatus == domain.TaskCompleted && n.TaskCompletedAt != nil && n.TaskCompletedAt.Equal(testNow)
		})).Return(nil).Once()
		note, err := services.NewNoteService(repo, services.WithClock(fixedClock)).CompleteTask(ctx, 3, actor)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskCompleted, note.TaskStatus)
		repo.AssertExpectations(t)
	})
}

func TestUpdateNote_EmptyPatch(t *testing.T) {
	_, err := services.NewNoteService(new(MockNoteRepository)).UpdateNote(context.Background(), 1, domain.NotePatch{}, actor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
