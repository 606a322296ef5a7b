package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/transfer"
)

func TestCreateSet_WithKeywordsIsCompleted(t *testing.T) {
	kw := newFakeKeywordSetRepo()
	svc := NewKeywordSetService(kw, &fakeTextGenerator{})

	id, err := svc.CreateSet(context.Background(), 1, &transfer.KeywordSetCreation{
		GroupType: models.KeywordGroupCommercial,
		Topic:     "industrial automation",
		Keywords:  []string{"cnc milling"},
	})
	require.NoError(t, err)

	set, err := kw.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.KeywordSetStatusCompleted, set.Status)
}

func TestCreateSet_WithoutKeywordsIsPending(t *testing.T) {
	kw := newFakeKeywordSetRepo()
	svc := NewKeywordSetService(kw, &fakeTextGenerator{})

	id, err := svc.CreateSet(context.Background(), 1, &transfer.KeywordSetCreation{
		GroupType: models.KeywordGroupLongTail,
		Topic:     "industrial automation",
	})
	require.NoError(t, err)

	set, _ := kw.GetByID(context.Background(), id)
	assert.Equal(t, models.KeywordSetStatusPending, set.Status)
}

func TestCreateSet_Validation(t *testing.T) {
	svc := NewKeywordSetService(newFakeKeywordSetRepo(), &fakeTextGenerator{})
	ctx := context.Background()

	_, err := svc.CreateSet(ctx, 1, &transfer.KeywordSetCreation{GroupType: models.KeywordGroupGeneral})
	assert.ErrorContains(t, err, "topic cannot be empty")

	_, err = svc.CreateSet(ctx, 1, &transfer.KeywordSetCreation{GroupType: "branded", Topic: "x"})
	assert.ErrorContains(t, err, "unknown keyword group type")
}

func TestGenerateSet_FillsPendingSet(t *testing.T) {
	kw := newFakeKeywordSetRepo(models.SEOKeywordSet{
		ID:        1,
		ClientID:  1,
		GroupType: models.KeywordGroupInformational,
		Topic:     "industrial automation",
		Status:    models.KeywordSetStatusPending,
	})
	tg := &fakeTextGenerator{keywords: []string{"how cnc works", "what is plc"}}
	svc := NewKeywordSetService(kw, tg)

	require.NoError(t, svc.GenerateSet(context.Background(), 1, 1))

	set, _ := kw.GetByID(context.Background(), 1)
	assert.Equal(t, models.KeywordSetStatusCompleted, set.Status)
	assert.Equal(t, []string{"how cnc works", "what is plc"}, []string(set.Keywords))
}

func TestGenerateSet_FailureMarksFailed(t *testing.T) {
	kw := newFakeKeywordSetRepo(models.SEOKeywordSet{
		ID:       1,
		ClientID: 1,
		Topic:    "industrial automation",
		Status:   models.KeywordSetStatusPending,
	})
	svc := NewKeywordSetService(kw, &fakeTextGenerator{}) // no keywords configured

	err := svc.GenerateSet(context.Background(), 1, 1)
	assert.ErrorContains(t, err, "keyword generation failed")

	set, _ := kw.GetByID(context.Background(), 1)
	assert.Equal(t, models.KeywordSetStatusFailed, set.Status)
}

func TestGenerateSet_OwnershipAndConcurrency(t *testing.T) {
	kw := newFakeKeywordSetRepo(models.SEOKeywordSet{
		ID:       1,
		ClientID: 1,
		Topic:    "industrial automation",
		Status:   models.KeywordSetStatusGenerating,
	})
	svc := NewKeywordSetService(kw, &fakeTextGenerator{keywords: []string{"x"}})

	err := svc.GenerateSet(context.Background(), 2, 1)
	assert.ErrorContains(t, err, "keyword set not found")

	err = svc.GenerateSet(context.Background(), 1, 1)
	assert.ErrorContains(t, err, "already generating")
}
