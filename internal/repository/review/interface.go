package review

import (
	"context"

	"doctor-reviews/internal/model"
)

type IRepository interface {
	UpsertReview(ctx context.Context, review model.Review) (string, error)
	ListReviewsForDoctor(ctx context.Context, doctorId string) ([]model.Review, error)
	FindReviewByPatient(ctx context.Context, doctorId, patientId string) (*model.Review, error)
	WriteDoctorAggregate(ctx context.Context, doctorId, rating string, count int) error
}
