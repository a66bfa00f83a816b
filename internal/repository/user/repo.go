package user

import (
	"context"
	"errors"
	"fmt"

	"go-firestore-deals/internal/database"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/model"
)

type UserRepository struct {
	db database.Client
}

var _ IRepository = UserRepository{}

func New(db database.Client) UserRepository {
	return UserRepository{
		db: db,
	}
}

func (r UserRepository) GetById(ctx context.Context, id string) (*model.UserProfile, error) {
	snap, err := r.db.GetDoc(ctx, UsersNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w, id: %s", err, id)
	}

	profile := &model.UserProfile{}
	if err := snap.DataTo(profile); err != nil {
		return nil, fmt.Errorf("get user: %w, id: %s", err, id)
	}
	if profile.Id == "" {
		profile.Id = snap.ID()
	}
	return profile, nil
}

func (r UserRepository) All(ctx context.Context) ([]model.UserProfile, error) {
	snaps, err := r.db.Query(ctx, UsersNode)
	if err != nil {
		return nil, fmt.Errorf("all users: %w", err)
	}

	profiles := make([]model.UserProfile, 0, len(snaps))
	for _, snap := range snaps {
		profile := model.UserProfile{}
		if err := snap.DataTo(&profile); err != nil {
			return nil, fmt.Errorf("all users: %w, id: %s", err, snap.ID())
		}
		if profile.Id == "" {
			profile.Id = snap.ID()
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r UserRepository) Save(ctx context.Context, data model.UserProfile) error {
	if data.Id == "" {
		return ierr.Validation("save user: id is empty")
	}
	if data.SavedDeals == nil {
		data.SavedDeals = []string{}
	}

	if err := r.db.SetDoc(ctx, UsersNode, data.Id, data); err != nil {
		return fmt.Errorf("save user: %w, id: %s", err, data.Id)
	}
	return nil
}

func (r UserRepository) Increment(ctx context.Context, id, fieldPath string, delta int64) error {
	err := r.db.UpdateDoc(ctx, UsersNode, id, []database.Update{
		{Path: fieldPath, Value: database.Increment(delta)},
	})
	if err != nil {
		return fmt.Errorf("increment %s: %w, id: %s", fieldPath, err, id)
	}
	return nil
}

func (r UserRepository) SetRankingPoints(ctx context.Context, id string, points int) error {
	err := r.db.UpdateDoc(ctx, UsersNode, id, []database.Update{
		{Path: RankingPointsFieldPath, Value: points},
	})
	if err != nil {
		return fmt.Errorf("set ranking points: %w, id: %s", err, id)
	}
	return nil
}

// AddSavedDeal is a no-op when dealId is already saved.
func (r UserRepository) AddSavedDeal(ctx context.Context, id, dealId string) error {
	err := r.db.UpdateDoc(ctx, UsersNode, id, []database.Update{
		{Path: SavedDealsFieldPath, Value: database.ArrayUnion(dealId)},
	})
	if err != nil {
		return fmt.Errorf("add saved deal: %w, id: %s", err, id)
	}
	return nil
}

func (r UserRepository) RemoveSavedDeal(ctx context.Context, id, dealId string) error {
	err := r.db.UpdateDoc(ctx, UsersNode, id, []database.Update{
		{Path: SavedDealsFieldPath, Value: database.ArrayRemove(dealId)},
	})
	if err != nil {
		return fmt.Errorf("remove saved deal: %w, id: %s", err, id)
	}
	return nil
}
