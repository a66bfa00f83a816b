package review

import (
	"context"

	"go-firestore-deals/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Review, error)
	Save(ctx context.Context, data model.Review) error
	Delete(ctx context.Context, id string) error
	ByProduct(ctx context.Context, barcodeNumber string) ([]model.Review, error)
	ByUser(ctx context.Context, userID string) ([]model.Review, error)

	GetAggregate(ctx context.Context, barcodeNumber string) (*model.ReviewAggregate, error)
	SaveAggregate(ctx context.Context, data model.ReviewAggregate) error
	DeleteAggregate(ctx context.Context, barcodeNumber string) error
}
