package doctor

import (
	"context"
	"testing"

	"doctor-reviews/internal/database/memstore"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
	"doctor-reviews/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	repo := New(memstore.New())
	ctx := context.Background()

	err := repo.Create(ctx, model.Doctor{
		Id:        utils.StringToPointer("D1"),
		Name:      utils.StringToPointer("Dr. House"),
		Specialty: utils.StringToPointer("diagnostics"),
		Rating:    utils.StringToPointer("4.9"),
	})
	require.NoError(t, err)

	d, err := repo.GetById(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, "D1", utils.StringValue(d.Id))
	assert.Equal(t, "Dr. House", utils.StringValue(d.Name))
	assert.Equal(t, "0.0", utils.StringValue(d.Rating), "a new doctor starts without reviews")
	require.NotNil(t, d.ReviewsCount)
	assert.Equal(t, 0, *d.ReviewsCount)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestCreate_Rejects(t *testing.T) {
	repo := New(memstore.New())
	ctx := context.Background()

	assert.Error(t, repo.Create(ctx, model.Doctor{Name: utils.StringToPointer("no id")}))

	require.NoError(t, repo.Create(ctx, model.Doctor{Id: utils.StringToPointer("D1")}))
	assert.Error(t, repo.Create(ctx, model.Doctor{Id: utils.StringToPointer("D1")}), "duplicate doctor")
}

func TestGetById_FillsIdFromDocument(t *testing.T) {
	db := memstore.New()
	repo := New(db)
	ctx := context.Background()

	require.NoError(t, db.SetDoc(ctx, doctorNode, "D7", map[string]interface{}{"name": "Dr. Who"}))

	d, err := repo.GetById(ctx, "D7")
	require.NoError(t, err)
	assert.Equal(t, "D7", utils.StringValue(d.Id))
}

func TestGetById_Errors(t *testing.T) {
	db := memstore.NewFaulty(memstore.New())
	repo := New(db)
	ctx := context.Background()

	_, err := repo.GetById(ctx, "missing")
	assert.ErrorIs(t, err, ierr.NotFound)
	assert.False(t, ierr.IsStoreError(err))

	db.Fail(memstore.OpGet, assert.AnError)
	_, err = repo.GetById(ctx, "D1")
	assert.True(t, ierr.IsStoreError(err))
	assert.ErrorIs(t, err, assert.AnError)
}
