package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/feature/rating"
)

type RatingInput struct {
	PostID string `json:"postId"`
	Value  int    `json:"value"`
}

// RatingResult carries the stored rating and the post's aggregate after the write.
type RatingResult struct {
	Rating  *domain.Rating `json:"rating"`
	Summary rating.Summary `json:"summary"`
}

func (s *Service) SubmitRating(ctx context.Context, p *domain.Principal, in RatingInput) (*RatingResult, error) {
	if err := auth.Authorize(p, auth.RatingSubmit, ""); err != nil {
		return nil, err
	}
	in.PostID = strings.TrimSpace(in.PostID)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.PostID, validation.Required),
		validation.Field(&in.Value, validation.By(ratingRange)),
	)
	if err := invalid(err); err != nil {
		return nil, err
	}
	post, err := s.store.Posts().FindByID(ctx, in.PostID)
	if err != nil {
		return nil, domain.Internal("load post", err)
	}
	if post == nil {
		return nil, domain.InvalidInput("post does not exist")
	}
	r, err := s.ratings.Submit(ctx, p.ID, post.ID, in.Value)
	if err != nil {
		return nil, err
	}
	sum, err := s.ratings.Summary(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &RatingResult{Rating: r, Summary: sum}, nil
}

// ratingRange also rejects zero, which ozzo's Min/Max treat as empty and skip.
func ratingRange(v any) error {
	if n, _ := v.(int); n < domain.MinRating || n > domain.MaxRating {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
