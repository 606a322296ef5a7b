package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobryakk5/zavod/internal/models"
)

func newPostFixture(t *testing.T, status string) (PostService, *fakePostRepo) {
	t.Helper()
	pr := newFakePostRepo()
	_, err := pr.Create(context.Background(), &models.Post{ClientID: 1, Title: "Launch", Status: status})
	require.NoError(t, err)
	return NewPostService(pr, &fakePostVideoRepo{}, &fakePostImageRepo{}), pr
}

func TestPostApprove(t *testing.T) {
	svc, pr := newPostFixture(t, models.PostStatusDraft)

	require.NoError(t, svc.Approve(context.Background(), 1, 1))

	post, _ := pr.GetByID(context.Background(), 1)
	assert.Equal(t, models.PostStatusApproved, post.Status)
}

func TestPostApprove_RejectsWrongStatus(t *testing.T) {
	for _, status := range []string{models.PostStatusApproved, models.PostStatusScheduled, models.PostStatusPublished} {
		svc, _ := newPostFixture(t, status)
		err := svc.Approve(context.Background(), 1, 1)
		assert.ErrorContains(t, err, "only draft or ready posts")
	}
}

func TestPostRemove(t *testing.T) {
	svc, pr := newPostFixture(t, models.PostStatusDraft)

	require.NoError(t, svc.Remove(context.Background(), 1, 1))

	post, _ := pr.GetByID(context.Background(), 1)
	assert.Nil(t, post)
}

func TestPostRemove_PublishedIsProtected(t *testing.T) {
	svc, pr := newPostFixture(t, models.PostStatusPublished)

	err := svc.Remove(context.Background(), 1, 1)
	assert.ErrorContains(t, err, "published posts cannot be removed")

	post, _ := pr.GetByID(context.Background(), 1)
	assert.NotNil(t, post)
}

func TestPostInfo_Ownership(t *testing.T) {
	svc, _ := newPostFixture(t, models.PostStatusDraft)

	post, err := svc.PostInfo(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Launch", post.Title)

	_, err = svc.PostInfo(context.Background(), 1, 2)
	assert.ErrorContains(t, err, "post not found")
}
