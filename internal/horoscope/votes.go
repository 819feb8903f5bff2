package horoscope

import (
	"context"
	"errors"
	"fmt"

	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/meuhoroscopo/backend/internal/storage"
	"github.com/rs/zerolog/log"
)

// VoteStatus reports whether a user has voted on a target and how.
type VoteStatus struct {
	HasVoted bool  `json:"hasVoted"`
	Rating   *bool `json:"rating"`
}

// GetVote returns the user's vote on the general horoscope for
// (sign, date), or on its category text when categoryID > 0. Missing
// content or a missing vote both read as "not voted".
func (s *Service) GetVote(ctx context.Context, userID string, signID int, effectiveDate string, categoryID int) (*VoteStatus, error) {
	content, err := s.store.GetDailyContent(ctx, signID, effectiveDate)
	if errors.Is(err, storage.ErrNotFound) {
		return &VoteStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	var vote *models.Vote
	if categoryID > 0 {
		vote, err = s.store.GetCategoryVote(ctx, content.ID, categoryID, userID)
	} else {
		vote, err = s.store.GetVote(ctx, content.ID, userID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return &VoteStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	rating := vote.Rating
	return &VoteStatus{HasVoted: true, Rating: &rating}, nil
}

// CastVote upserts the user's vote. Content must exist before it can be
// voted on; a second vote by the same user replaces the first.
func (s *Service) CastVote(ctx context.Context, userID string, signID int, effectiveDate string, categoryID int, rating bool) error {
	content, err := s.store.GetDailyContent(ctx, signID, effectiveDate)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: sign %d on %s", ErrContentNotFound, signID, effectiveDate)
	}
	if err != nil {
		return err
	}

	if categoryID > 0 {
		_, err = s.store.GetCategoryContent(ctx, signID, categoryID, effectiveDate)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: category %d for sign %d on %s", ErrCategoryContentNotFound, categoryID, signID, effectiveDate)
		}
		if err != nil {
			return err
		}
		err = s.store.UpsertCategoryVote(ctx, content.ID, categoryID, userID, rating)
	} else {
		err = s.store.UpsertVote(ctx, content.ID, userID, rating)
	}
	if err != nil {
		return err
	}

	log.Debug().
		Str("user", userID).
		Int("sign", signID).
		Int("category", categoryID).
		Bool("rating", rating).
		Msg("Vote recorded")
	return nil
}
