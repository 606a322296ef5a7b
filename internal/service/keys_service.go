package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/pkg/utils"
)

type ApiKeyService interface {
	GetClientID(ctx context.Context, apiKey string) (int64, error)
	Create(ctx context.Context, clientID int64) (string, error)
	List(ctx context.Context, clientID int64) ([]*models.ApiKey, error)
	Remove(ctx context.Context, clientID, keyID int64) error
}

type apiKeyService struct {
	r repository.ApiKeyRepository
}

func NewApiKeyService(r repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{r: r}
}

func (s *apiKeyService) GetClientID(ctx context.Context, apiKey string) (int64, error) {
	clientID, ok, err := s.r.GetByKey(ctx, apiKey)
	if err != nil || !ok {
		return 0, errors.New("invalid api key")
	}
	return *clientID, nil
}

func (s *apiKeyService) Create(ctx context.Context, clientID int64) (string, error) {
	key, err := utils.GenerateRandomKey(32)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if _, err := s.r.Create(ctx, &models.ApiKey{ClientID: clientID, ApiKey: key}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *apiKeyService) List(ctx context.Context, clientID int64) ([]*models.ApiKey, error) {
	return s.r.GetByClientID(ctx, clientID)
}

func (s *apiKeyService) Remove(ctx context.Context, clientID, keyID int64) error {
	keys, err := s.r.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k.ID == keyID {
			return s.r.Remove(ctx, keyID)
		}
	}
	return errors.New("api key not found")
}
