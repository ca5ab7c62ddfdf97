package review

import (
	"context"
	"fmt"
	"time"

	"doctor-reviews/internal/database"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
	"doctor-reviews/internal/repository/filter"
	"doctor-reviews/internal/repository/ops"

	"github.com/rs/zerolog/log"
)

type ReviewRepository struct {
	db  database.Client
	now func() time.Time
}

var _ IRepository = ReviewRepository{}

func New(db database.Client) ReviewRepository {
	return ReviewRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// UpsertReview stores the review under its own id, or under a freshly generated one when the
// id is empty, overwriting whatever was stored there. The timestamp is always set to now.
func (r ReviewRepository) UpsertReview(ctx context.Context, review model.Review) (string, error) {

	if review.ReviewId == "" {
		review.ReviewId = r.db.NewDocID(reviewNode)
	}
	review.Timestamp = r.now()

	if err := r.db.SetDoc(ctx, reviewNode, review.ReviewId, review); err != nil {
		return "", ierr.Store("upsert review", review.ReviewId, err)
	}

	log.Debug().Str("reviewId", review.ReviewId).Str("doctorId", review.DoctorId).Msg("review submitted")
	return review.ReviewId, nil
}

// ListReviewsForDoctor returns the reviews of the doctor, most recent first.
func (r ReviewRepository) ListReviewsForDoctor(ctx context.Context, doctorId string) ([]model.Review, error) {

	docs, err := r.db.QueryDocs(ctx, database.Query{
		Collection: reviewNode,
		Where:      []filter.Where{{Path: DoctorIdFieldPath, Op: ops.Equal, Value: doctorId}},
		OrderBy:    []filter.OrderBy{{Path: TimestampFieldPath, Direction: filter.Desc}},
	})
	if err != nil {
		return nil, ierr.Store("list reviews for doctor", doctorId, err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for _, doc := range docs {
		rw := model.Review{}
		if err := doc.DataTo(&rw); err != nil {
			// skip malformed documents, as the rest of the set is still usable
			log.Error().Err(err).Str("reviewId", doc.ID).Msg("review repo: failed to convert doc to review")
			continue
		}
		if rw.ReviewId == "" {
			rw.ReviewId = doc.ID
		}
		reviews = append(reviews, rw)
	}

	return reviews, nil
}

// FindReviewByPatient returns the review the patient left for the doctor, or nil if there is none.
// Should the pair have more than one review, any of them is returned.
func (r ReviewRepository) FindReviewByPatient(ctx context.Context, doctorId, patientId string) (*model.Review, error) {

	docs, err := r.db.QueryDocs(ctx, database.Query{
		Collection: reviewNode,
		Where: []filter.Where{
			{Path: DoctorIdFieldPath, Op: ops.Equal, Value: doctorId},
			{Path: PatientIdFieldPath, Op: ops.Equal, Value: patientId},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, ierr.Store("find review by patient", fmt.Sprintf("%s/%s", doctorId, patientId), err)
	}

	for _, doc := range docs {
		rw := &model.Review{}
		if err := doc.DataTo(rw); err != nil {
			return nil, ierr.Store("find review by patient", doc.ID, err)
		}
		if rw.ReviewId == "" {
			rw.ReviewId = doc.ID
		}
		return rw, nil
	}

	return nil, nil
}

// WriteDoctorAggregate updates only the rating and reviewsCount fields of the doctor.
func (r ReviewRepository) WriteDoctorAggregate(ctx context.Context, doctorId, rating string, count int) error {

	updates := []database.Update{
		{Path: DoctorRatingFieldPath, Value: rating},
		{Path: DoctorReviewsCountFieldPath, Value: count},
	}

	if err := r.db.UpdateDoc(ctx, doctorNode, doctorId, updates); err != nil {
		return ierr.Store("write doctor aggregate", doctorId, err)
	}

	return nil
}
