package review

import "time"

const (
	// collection names
	reviewNode string = "reviews"
	doctorNode string = "doctors"

	// reviews' field names and paths
	ReviewIdFieldPath  string = "reviewId"
	DoctorIdFieldPath  string = "doctorId"
	PatientIdFieldPath string = "patientId"
	RatingFieldPath    string = "rating"
	TimestampFieldPath string = "timestamp"

	// doctors' aggregate field names and paths
	DoctorRatingFieldPath       string = "rating"
	DoctorReviewsCountFieldPath string = "reviewsCount"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
