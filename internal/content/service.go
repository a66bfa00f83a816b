package content

import (
	"context"
	"fmt"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/eventpublisher/activity"
	"go-firestore-deals/internal/eventpublisher/event"
	"go-firestore-deals/internal/model"
	commentRepository "go-firestore-deals/internal/repository/comment"
	dealRepository "go-firestore-deals/internal/repository/deal"
	userRepository "go-firestore-deals/internal/repository/user"
	"go-firestore-deals/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service posts deals and comments and keeps the author counters they feed.
type Service struct {
	dealRepo    dealRepository.IRepository
	commentRepo commentRepository.IRepository
	userRepo    userRepository.IRepository
	notifier    activity.Notifier
	validate    *validator.Validate
}

func New(
	dealRepo dealRepository.IRepository,
	commentRepo commentRepository.IRepository,
	userRepo userRepository.IRepository,
	notifier activity.Notifier) *Service {

	return &Service{
		dealRepo:    dealRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		validate:    validator.New(),
	}
}

func (s *Service) requireUser(ctx context.Context, userId string) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: user %s", ierr.NotFound, userId)
	}
	return profile, nil
}

func (s *Service) bump(ctx context.Context, userId, fieldPath string, t event.EventType) {
	if err := s.userRepo.Increment(ctx, userId, fieldPath, 1); err != nil {
		log.Error().Err(err).Msgf("content: %s left unadjusted for %s", fieldPath, userId)
		return
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, event.ScoreChanged{UserID: userId, Type: t})
	}
}

func (s *Service) AddDeal(ctx context.Context, deal model.Deal) (model.Deal, error) {
	if err := s.validate.Struct(deal); err != nil {
		return model.Deal{}, ierr.Validation("deal: %v", err)
	}
	if _, err := s.requireUser(ctx, deal.UserID); err != nil {
		return model.Deal{}, fmt.Errorf("add deal: %w", err)
	}

	now := time.Now().UTC()
	deal.Id = uuid.NewString()
	deal.Upvote, deal.Downvote = 0, 0
	deal.CommentIDs = []string{}
	deal.DateTime = utils.TimeToPointer(now)
	deal.Date = utils.TimeAgo(now, now)

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return model.Deal{}, fmt.Errorf("add deal: %w", err)
	}
	log.Debug().Msgf("deal %s added by %s", deal.Id, deal.UserID)

	s.bump(ctx, deal.UserID, userRepository.TotalDealsFieldPath, event.DealAdded)
	return deal, nil
}

func (s *Service) AddComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	if err := s.validate.Struct(comment); err != nil {
		return model.Comment{}, ierr.Validation("comment: %v", err)
	}
	if comment.CommentType == "" {
		comment.CommentType = model.CommentTypeDeal
	}
	if comment.CommentType != model.CommentTypeDeal {
		return model.Comment{}, ierr.Validation("comments on %s are no longer accepted", comment.CommentType)
	}

	if _, err := s.requireUser(ctx, comment.UserID); err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	deal, err := s.dealRepo.GetById(ctx, comment.ItemID)
	if err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	if deal == nil {
		return model.Comment{}, fmt.Errorf("add comment: %w: deal %s", ierr.NotFound, comment.ItemID)
	}

	now := time.Now().UTC()
	comment.Id = uuid.NewString()
	comment.Upvote, comment.Downvote = 0, 0
	comment.DateTime = utils.TimeToPointer(now)
	comment.Date = utils.TimeAgo(now, now)

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	if err := s.dealRepo.AppendComment(ctx, comment.ItemID, comment.Id); err != nil {
		return comment, fmt.Errorf("add comment: %w", err)
	}
	log.Debug().Msgf("comment %s added to deal %s by %s", comment.Id, comment.ItemID, comment.UserID)

	s.bump(ctx, comment.UserID, userRepository.TotalCommentsFieldPath, event.CommentAdded)
	return comment, nil
}

// SaveDeal bookmarks the deal for the user. Saving a deal twice keeps one entry.
func (s *Service) SaveDeal(ctx context.Context, userId, dealId string) error {
	if userId == "" || dealId == "" {
		return ierr.Validation("user id and deal id are required")
	}

	if _, err := s.requireUser(ctx, userId); err != nil {
		return fmt.Errorf("save deal: %w", err)
	}

	deal, err := s.dealRepo.GetById(ctx, dealId)
	if err != nil {
		return fmt.Errorf("save deal: %w", err)
	}
	if deal == nil {
		return fmt.Errorf("save deal: %w: deal %s", ierr.NotFound, dealId)
	}

	if err := s.userRepo.AddSavedDeal(ctx, userId, dealId); err != nil {
		return fmt.Errorf("save deal: %w", err)
	}
	return nil
}

func (s *Service) UnsaveDeal(ctx context.Context, userId, dealId string) error {
	if userId == "" || dealId == "" {
		return ierr.Validation("user id and deal id are required")
	}

	if _, err := s.requireUser(ctx, userId); err != nil {
		return fmt.Errorf("unsave deal: %w", err)
	}

	if err := s.userRepo.RemoveSavedDeal(ctx, userId, dealId); err != nil {
		return fmt.Errorf("unsave deal: %w", err)
	}
	return nil
}
