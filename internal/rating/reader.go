package rating

import (
	"context"

	"doctor-reviews/internal/model"

	"github.com/rs/zerolog/log"
)

// DoctorReviews returns the doctor's reviews, most recent first, for display.
// A failed read is logged and reported as an empty list.
func (a *Aggregator) DoctorReviews(ctx context.Context, doctorId string) []model.Review {
	reviews, err := a.reviewRepo.ListReviewsForDoctor(ctx, doctorId)
	if err != nil {
		log.Error().Err(err).Str("doctorId", doctorId).Msg("rating aggregator: failed to load doctor reviews")
		return []model.Review{}
	}
	return reviews
}

// PatientReview returns the patient's review of the doctor for display, or nil.
// A failed read is logged and reported as nil.
func (a *Aggregator) PatientReview(ctx context.Context, doctorId, patientId string) *model.Review {
	review, err := a.reviewRepo.FindReviewByPatient(ctx, doctorId, patientId)
	if err != nil {
		log.Error().Err(err).Str("doctorId", doctorId).Msg("rating aggregator: failed to load patient review")
		return nil
	}
	return review
}
