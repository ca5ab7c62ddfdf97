package doctor

import (
	"context"

	"doctor-reviews/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Doctor, error)
	Create(ctx context.Context, data model.Doctor) error
}
