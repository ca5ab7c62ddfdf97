package reviewsentiments

import (
	"context"

	"doctor-reviews/internal/model"
)

type IRepository interface {
	Save(ctx context.Context, data model.ReviewSentiments) error
	GetById(ctx context.Context, doctorId string) (*model.ReviewSentiments, error)
}
