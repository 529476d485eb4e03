package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Publish(entry activity.Entry) {
	r.entries = append(r.entries, entry)
}

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.Entry{
		ProjectID: "proj1",
		ActorID:   "u1",
		Type:      activity.TypeTaskCreated,
		Summary:   "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListOptions{ProjectID: "proj1", Limit: activity.DefaultListLimit}).Return([]activity.Entry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	sub := &recorder{}
	svc.Notify(sub)

	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())
	require.Len(t, sub.entries, 1)
	require.Equal(t, activity.TypeTaskCreated, sub.entries[0].Type)

	entries, err := svc.GetRecentActivity(ctx, activity.ListOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityService_FailedLogIsNotPublished(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	sub := &recorder{}
	svc.Notify(sub)

	entry := &activity.Entry{ProjectID: "p1", Type: activity.TypeTaskMoved}
	require.Error(t, svc.LogActivity(ctx, entry))
	svc.Record(ctx, entry)
	require.Empty(t, sub.entries)
}

func TestActivityService_RejectsIncompleteEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.Entry{ProjectID: "p1"}), activity.ErrInvalidInput)
}
