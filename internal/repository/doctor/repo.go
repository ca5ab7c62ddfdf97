package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctor-reviews/internal/database"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/model"
	"doctor-reviews/internal/utils"
)

type DoctorRepository struct {
	db database.Client
}

var _ IRepository = DoctorRepository{}

func New(db database.Client) DoctorRepository {
	return DoctorRepository{
		db: db,
	}
}

func (r DoctorRepository) GetById(ctx context.Context, id string) (*model.Doctor, error) {

	docSnap, err := r.db.GetDoc(ctx, doctorNode, id)
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFound
		}
		return nil, ierr.Store("get doctor", id, err)
	}

	doctor := &model.Doctor{}
	if err = docSnap.DataTo(doctor); err != nil {
		return nil, ierr.Store("get doctor", id, err)
	}

	if doctor.Id == nil {
		doctor.Id = utils.StringToPointer(docSnap.ID)
	}
	return doctor, nil
}

// Create stores a new doctor with an empty review aggregate. It fails if the doctor already exists.
func (r DoctorRepository) Create(ctx context.Context, data model.Doctor) error {
	if data.Id == nil || *data.Id == "" {
		return fmt.Errorf("create doctor: id is empty")
	}

	d, err := r.GetById(ctx, *data.Id)
	if d != nil {
		return fmt.Errorf("create doctor: already exists, id: %s", *data.Id)
	}

	if err != nil && !errors.Is(err, ierr.NotFound) {
		return fmt.Errorf("create doctor: %w", err)
	}

	data.CreatedAt = time.Now().UTC()
	data.Rating = utils.StringToPointer(noReviewsRating)
	data.ReviewsCount = utils.IntToPointer(0)

	if err := r.db.SetDoc(ctx, doctorNode, *data.Id, data); err != nil {
		return ierr.Store("create doctor", *data.Id, err)
	}

	return nil
}
