package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/internal/transfer"
)

const defaultKeywordCount = 30

var validGroupTypes = map[string]struct{}{
	models.KeywordGroupCommercial:    {},
	models.KeywordGroupGeneral:       {},
	models.KeywordGroupInformational: {},
	models.KeywordGroupLongTail:      {},
}

type KeywordSetService interface {
	CreateSet(ctx context.Context, clientID int64, kc *transfer.KeywordSetCreation) (int64, error)
	GenerateSet(ctx context.Context, clientID, setID int64) error
	List(ctx context.Context, clientID int64) ([]*models.SEOKeywordSet, error)
}

type keywordSetService struct {
	kw repository.SEOKeywordSetRepository
	tg TextGenerator
}

func NewKeywordSetService(kw repository.SEOKeywordSetRepository, tg TextGenerator) KeywordSetService {
	return &keywordSetService{kw: kw, tg: tg}
}

func (s *keywordSetService) CreateSet(ctx context.Context, clientID int64, kc *transfer.KeywordSetCreation) (int64, error) {
	if kc == nil || kc.Topic == "" {
		err := errors.New("topic cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if _, ok := validGroupTypes[kc.GroupType]; !ok {
		err := fmt.Errorf("unknown keyword group type %q", kc.GroupType)
		slog.Info(err.Error())
		return 0, err
	}

	set := models.SEOKeywordSet{
		ClientID:  clientID,
		GroupType: kc.GroupType,
		Topic:     kc.Topic,
		Keywords:  kc.Keywords,
		Status:    models.KeywordSetStatusPending,
	}
	if len(kc.Keywords) > 0 {
		set.Status = models.KeywordSetStatusCompleted
	}

	return s.kw.Create(ctx, &set)
}

// GenerateSet fills a pending set via the LLM, tracking
// pending -> generating -> {completed, failed}.
func (s *keywordSetService) GenerateSet(ctx context.Context, clientID, setID int64) error {
	set, err := s.kw.GetByID(ctx, setID)
	if err != nil {
		return err
	}
	if set == nil || set.ClientID != clientID {
		return errors.New("keyword set not found")
	}
	if set.Status == models.KeywordSetStatusGenerating {
		return errors.New("keyword set is already generating")
	}

	if err := s.kw.UpdateStatus(ctx, models.KeywordSetStatusGenerating, setID); err != nil {
		return err
	}

	keywords, err := s.tg.GenerateKeywords(ctx, set.Topic, set.GroupType, defaultKeywordCount)
	if err != nil || len(keywords) == 0 {
		if serr := s.kw.UpdateStatus(ctx, models.KeywordSetStatusFailed, setID); serr != nil {
			slog.Info(serr.Error())
		}
		if err == nil {
			err = errors.New("llm returned no keywords")
		}
		return fmt.Errorf("keyword generation failed: %w", err)
	}

	return s.kw.UpdateKeywords(ctx, setID, keywords, models.KeywordSetStatusCompleted)
}

func (s *keywordSetService) List(ctx context.Context, clientID int64) ([]*models.SEOKeywordSet, error) {
	return s.kw.ListByClientID(ctx, clientID)
}
