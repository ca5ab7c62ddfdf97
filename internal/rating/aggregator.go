package rating

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"doctor-reviews/internal/model"
	reviewRepository "doctor-reviews/internal/repository/review"
	"doctor-reviews/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	NoReviewsRating string = "0.0"

	// same length as the ids the document store generates
	reviewIdLength int = 20
)

// Aggregator keeps the rating and reviewsCount of a doctor in line with the doctor's reviews.
// It holds no state of its own: the aggregate is recomputed from the full review set on
// every call, and concurrent calls for the same doctor are not coordinated.
type Aggregator struct {
	reviewRepo reviewRepository.IRepository
	validate   *validator.Validate
}

func New(reviewRepo reviewRepository.IRepository) *Aggregator {
	return &Aggregator{
		reviewRepo: reviewRepo,
		validate:   newValidator(),
	}
}

// SubmitReview stores the review and then recomputes the doctor's aggregate.
//
// A review without an id reuses the id of the patient's existing review for the doctor. When
// there is none, the id is derived from the doctor and patient ids so that racing first
// submissions of the same patient land on the same document.
//
// If the recompute fails the review stays stored; the error is returned together with the
// review id.
func (a *Aggregator) SubmitReview(ctx context.Context, review model.Review) (string, error) {
	if err := a.validateReview(review); err != nil {
		return "", err
	}

	if review.ReviewId == "" {
		id, err := a.resolveReviewId(ctx, review)
		if err != nil {
			return "", fmt.Errorf("submit review: %w", err)
		}
		review.ReviewId = id
	}

	id, err := a.reviewRepo.UpsertReview(ctx, review)
	if err != nil {
		log.Error().Err(err).Str("doctorId", review.DoctorId).Msg("rating aggregator: failed to store review")
		return "", fmt.Errorf("submit review: %w", err)
	}

	if _, err := a.RecomputeAggregate(ctx, review.DoctorId); err != nil {
		log.Error().Err(err).Str("reviewId", id).Str("doctorId", review.DoctorId).
			Msg("rating aggregator: review stored but the doctor aggregate is stale")
		return id, fmt.Errorf("submit review: %w", err)
	}

	return id, nil
}

// RecomputeAggregate reads every review of the doctor and writes the resulting aggregate.
// Nothing is written if the reviews cannot be read.
func (a *Aggregator) RecomputeAggregate(ctx context.Context, doctorId string) (model.DoctorAggregate, error) {

	reviews, err := a.reviewRepo.ListReviewsForDoctor(ctx, doctorId)
	if err != nil {
		return model.DoctorAggregate{}, fmt.Errorf("recompute aggregate: %w", err)
	}

	agg := Aggregate(doctorId, reviews)
	if err := a.reviewRepo.WriteDoctorAggregate(ctx, doctorId, agg.Rating, agg.ReviewsCount); err != nil {
		return model.DoctorAggregate{}, fmt.Errorf("recompute aggregate: %w", err)
	}

	log.Debug().Msgf("doctor %s rating updated: %s (%d reviews)", doctorId, agg.Rating, agg.ReviewsCount)
	return agg, nil
}

func (a *Aggregator) resolveReviewId(ctx context.Context, review model.Review) (string, error) {
	existing, err := a.reviewRepo.FindReviewByPatient(ctx, review.DoctorId, review.PatientId)
	if err != nil {
		return "", err
	}

	if existing != nil && existing.ReviewId != "" {
		return existing.ReviewId, nil
	}

	return utils.Hash(review.DoctorId, review.PatientId)[:reviewIdLength], nil
}

// Aggregate computes the aggregate of the given reviews: the arithmetic mean of their ratings
// formatted by FormatRating, and their count.
func Aggregate(doctorId string, reviews []model.Review) model.DoctorAggregate {
	if len(reviews) == 0 {
		return model.DoctorAggregate{DoctorId: doctorId, Rating: NoReviewsRating, ReviewsCount: 0}
	}

	sum := 0.0
	for _, r := range reviews {
		sum += r.Rating
	}

	return model.DoctorAggregate{
		DoctorId:     doctorId,
		Rating:       FormatRating(sum / float64(len(reviews))),
		ReviewsCount: len(reviews),
	}
}

// FormatRating renders the rating with exactly one fractional digit, rounding halves away from zero.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(math.Round(rating*10)/10, 'f', 1, 64)
}
