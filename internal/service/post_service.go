package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
)

type PostService interface {
	List(ctx context.Context, clientID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, clientID int64) (*models.Post, error)
	Remove(ctx context.Context, clientID, postID int64) error
	Approve(ctx context.Context, clientID, postID int64) error
}

type postService struct {
	pr repository.PostRepository
	pv repository.PostVideoRepository
	pi repository.PostImageRepository
}

func NewPostService(pr repository.PostRepository, pv repository.PostVideoRepository, pi repository.PostImageRepository) PostService {
	return &postService{pr: pr, pv: pv, pi: pi}
}

func (s *postService) List(ctx context.Context, clientID int64) ([]*models.Post, error) {
	return s.pr.ListByClientID(ctx, clientID)
}

func (s *postService) PostInfo(ctx context.Context, postID, clientID int64) (*models.Post, error) {
	post, err := s.getOwned(ctx, clientID, postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Remove(ctx context.Context, clientID, postID int64) error {
	post, err := s.getOwned(ctx, clientID, postID)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusPublished {
		return errors.New("published posts cannot be removed")
	}
	return s.pr.Remove(ctx, postID)
}

func (s *postService) Approve(ctx context.Context, clientID, postID int64) error {
	post, err := s.getOwned(ctx, clientID, postID)
	if err != nil {
		return err
	}
	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusReady {
		return errors.New("only draft or ready posts can be approved")
	}
	return s.pr.UpdateStatus(ctx, models.PostStatusApproved, postID)
}

func (s *postService) getOwned(ctx context.Context, clientID, postID int64) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.ClientID != clientID {
		err := errors.New("post not found")
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}
