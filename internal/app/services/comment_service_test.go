package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/communityevents/internal/app/models"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/pkg/apperrors"
)

// fakeCommentStore keeps comments in memory
type fakeCommentStore struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[int64]*models.Comment{}}
}

func (f *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	f.comments[comment.ID] = comment
	return comment.ID, nil
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	return comment, nil
}

func (f *fakeCommentStore) GetByEvent(ctx context.Context, eventID int64, offset uint64, limit int) ([]models.Comment, int64, error) {
	result := []models.Comment{}
	for _, comment := range f.comments {
		if comment.EventID == eventID && comment.ParentID == nil {
			result = append(result, *comment)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeCommentStore) Update(ctx context.Context, id int64, content string) error {
	comment, ok := f.comments[id]
	if !ok {
		return apperrors.ErrCommentNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return apperrors.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

func newTestCommentService() (*commentServiceImpl, *fakeCommentStore) {
	store := newFakeCommentStore()
	event := &models.Event{ID: 1, Status: models.EventStatusUpcoming}
	return newCommentService(store, &fakeEventGetter{event: event}, zerolog.Nop()), store
}

func TestCreateComment(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, 1, 10, &dto.CreateCommentRequest{Content: "Looking forward to it"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), comment.AuthorID)
	assert.Equal(t, "Looking forward to it", comment.Content)

	_, err = svc.CreateComment(ctx, 99, 10, &dto.CreateCommentRequest{Content: "wrong event"})
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestCreateReply(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()

	parent, err := svc.CreateComment(ctx, 1, 10, &dto.CreateCommentRequest{Content: "parent"})
	require.NoError(t, err)

	reply, err := svc.CreateComment(ctx, 1, 11, &dto.CreateCommentRequest{Content: "reply", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	// Replies stay one level deep
	_, err = svc.CreateComment(ctx, 1, 12, &dto.CreateCommentRequest{Content: "nested", ParentID: &reply.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCommentUpdateIsAuthorOnly(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, 1, 10, &dto.CreateCommentRequest{Content: "original"})
	require.NoError(t, err)

	// Not even an admin may edit someone else's comment
	_, err = svc.UpdateComment(ctx, comment.ID, 99, &dto.UpdateCommentRequest{Content: "edited"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.UpdateComment(ctx, comment.ID, 10, &dto.UpdateCommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestCommentDeleteIsAuthorOnly(t *testing.T) {
	svc, store := newTestCommentService()
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, 1, 10, &dto.CreateCommentRequest{Content: "to delete"})
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, comment.ID, 11)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteComment(ctx, comment.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, store.comments)
}
