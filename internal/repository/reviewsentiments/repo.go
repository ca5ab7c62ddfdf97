package reviewsentiments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctor-reviews/internal/database"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
)

type ReviewSentimentsRepository struct {
	db database.Client
}

var _ IRepository = ReviewSentimentsRepository{}

func New(db database.Client) ReviewSentimentsRepository {
	return ReviewSentimentsRepository{
		db: db,
	}
}

// Save overwrites the sentiments of the doctor, keeping the original creation time.
func (r ReviewSentimentsRepository) Save(ctx context.Context, data model.ReviewSentiments) error {
	if data.DoctorId == nil || *data.DoctorId == "" {
		return fmt.Errorf("save review sentiments: doctorId is empty")
	}

	now := time.Now().UTC()
	data.CreatedAt = now
	data.UpdatedAt = now

	prev, err := r.GetById(ctx, *data.DoctorId)
	if err != nil && !errors.Is(err, ierr.NotFound) {
		return fmt.Errorf("save review sentiments: %w", err)
	}
	if prev != nil && !prev.CreatedAt.IsZero() {
		data.CreatedAt = prev.CreatedAt
	}

	if err := r.db.SetDoc(ctx, reviewSentimentsNode, *data.DoctorId, data); err != nil {
		return ierr.Store("save review sentiments", *data.DoctorId, err)
	}

	return nil
}

func (r ReviewSentimentsRepository) GetById(ctx context.Context, doctorId string) (*model.ReviewSentiments, error) {

	docSnap, err := r.db.GetDoc(ctx, reviewSentimentsNode, doctorId)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFound
		}
		return nil, ierr.Store("get review sentiments", doctorId, err)
	}

	rs := &model.ReviewSentiments{}
	if err := docSnap.DataTo(rs); err != nil {
		return nil, ierr.Store("get review sentiments", doctorId, err)
	}
	return rs, nil
}
