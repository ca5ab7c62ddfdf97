package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
	doctorRepository "doctor-reviews/internal/repository/doctor"

	"github.com/gin-gonic/gin"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, review model.Review) (string, error)
	RecomputeAggregate(ctx context.Context, doctorId string) (model.DoctorAggregate, error)
	DoctorReviews(ctx context.Context, doctorId string) []model.Review
	PatientReview(ctx context.Context, doctorId, patientId string) *model.Review
}

type Handler struct {
	reviews    ReviewService
	doctorRepo doctorRepository.IRepository
}

func NewHandler(reviews ReviewService, doctorRepo doctorRepository.IRepository) *Handler {
	return &Handler{
		reviews:    reviews,
		doctorRepo: doctorRepo,
	}
}

type submitReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.doctorRepo.GetById(c.Request.Context(), c.Param("doctorId"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	respond(c, http.StatusOK, doctor)
}

func (h *Handler) ListReviews(c *gin.Context) {
	respond(c, http.StatusOK, h.reviews.DoctorReviews(c.Request.Context(), c.Param("doctorId")))
}

func (h *Handler) GetMyReview(c *gin.Context) {
	identity, _ := identityFrom(c)

	review := h.reviews.PatientReview(c.Request.Context(), c.Param("doctorId"), identity.UID)
	if review == nil {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "no review for this doctor")
		return
	}
	respond(c, http.StatusOK, review)
}

// SubmitReview creates or replaces the caller's review of the doctor.
func (h *Handler) SubmitReview(c *gin.Context) {
	identity, _ := identityFrom(c)
	doctorId := c.Param("doctorId")

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	// reviews are only accepted for known doctors, the aggregate update would fail otherwise
	if _, err := h.doctorRepo.GetById(c.Request.Context(), doctorId); err != nil {
		if errors.Is(err, ierr.NotFound) {
			abortWithError(c, http.StatusNotFound, "NOT_FOUND", "doctor not found")
			return
		}
		respondError(c, err, "")
		return
	}

	id, err := h.reviews.SubmitReview(c.Request.Context(), model.Review{
		DoctorId:    doctorId,
		PatientId:   identity.UID,
		PatientName: identity.DisplayName,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	})
	if err != nil {
		respondError(c, err, id)
		return
	}

	respond(c, http.StatusCreated, gin.H{"reviewId": id})
}

func (h *Handler) RecomputeAggregate(c *gin.Context) {
	agg, err := h.reviews.RecomputeAggregate(c.Request.Context(), c.Param("doctorId"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	respond(c, http.StatusOK, agg)
}
