package model

import "time"

type Doctor struct {
	Id           *string   `firestore:"id,omitempty" json:"id,omitempty"`
	Name         *string   `firestore:"name,omitempty" json:"name,omitempty"`
	Specialty    *string   `firestore:"specialty,omitempty" json:"specialty,omitempty"`
	Rating       *string   `firestore:"rating,omitempty" json:"rating,omitempty"`
	ReviewsCount *int      `firestore:"reviewsCount,omitempty" json:"reviewsCount,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// DoctorAggregate is the summary of all reviews of a doctor as stored on the doctor document.
type DoctorAggregate struct {
	DoctorId     string `json:"doctorId"`
	Rating       string `json:"rating"`
	ReviewsCount int    `json:"reviewsCount"`
}
