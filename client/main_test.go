package main

import (
	"bytes"
	"context"
	"testing"

	"doctor-reviews/internal/database/memstore"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
	doctorRepository "doctor-reviews/internal/repository/doctor"
	reviewRepository "doctor-reviews/internal/repository/review"
	"doctor-reviews/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReviews(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	require.NoError(t, doctorRepository.New(db).Create(ctx, model.Doctor{Id: utils.StringToPointer("D1")}))

	var out bytes.Buffer
	err := submitReviews(ctx, db, []model.Review{
		{DoctorId: "D1", PatientId: "P1", Rating: 5},
		{DoctorId: "D1", PatientId: "P2", Rating: 4},
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "submitted for doctor D1")

	d, err := doctorRepository.New(db).GetById(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, "4.5", utils.StringValue(d.Rating))
}

func TestSubmitReviews_UnknownDoctorWritesNothing(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	require.NoError(t, doctorRepository.New(db).Create(ctx, model.Doctor{Id: utils.StringToPointer("D1")}))

	err := submitReviews(ctx, db, []model.Review{
		{DoctorId: "D1", PatientId: "P1", Rating: 5},
		{DoctorId: "ghost", PatientId: "P1", Rating: 3},
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ierr.NotFound)

	reviews := reviewRepository.New(db)
	for _, doctorId := range []string{"D1", "ghost"} {
		list, err := reviews.ListReviewsForDoctor(ctx, doctorId)
		require.NoError(t, err)
		assert.Empty(t, list, "no review is stored for %s", doctorId)
	}
}
