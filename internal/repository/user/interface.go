package user

import (
	"context"

	"go-firestore-deals/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.UserProfile, error)
	All(ctx context.Context) ([]model.UserProfile, error)
	Save(ctx context.Context, data model.UserProfile) error
	// Increment atomically adds delta to one of the profile's counter fields.
	Increment(ctx context.Context, id, fieldPath string, delta int64) error
	SetRankingPoints(ctx context.Context, id string, points int) error
	AddSavedDeal(ctx context.Context, id, dealId string) error
	RemoveSavedDeal(ctx context.Context, id, dealId string) error
}
