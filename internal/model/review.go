package model

import "time"

// Review is one patient's evaluation of one doctor. An empty ReviewId marks a
// review that has not been stored yet.
type Review struct {
	ReviewId    string    `firestore:"reviewId" json:"reviewId"`
	DoctorId    string    `firestore:"doctorId" json:"doctorId" validate:"required"`
	PatientId   string    `firestore:"patientId" json:"patientId" validate:"required"`
	PatientName string    `firestore:"patientName" json:"patientName"`
	Rating      float64   `firestore:"rating" json:"rating" validate:"gte=1,lte=5"`
	Comment     string    `firestore:"comment" json:"comment"`
	Timestamp   time.Time `firestore:"timestamp" json:"timestamp"`
}
