package reviewsentiments

const (
	// collection name
	reviewSentimentsNode string = "reviewSentiments"

	// reviewSentiments' field names and paths
	DoctorIdFieldPath        string = "doctorId"
	SentimentsFieldPath      string = "sentiments"
	ReviewsAnalyzedFieldPath string = "reviewsAnalyzed"
	CreatedAtFieldPath       string = "createdAt"
	UpdatedAtFieldPath       string = "updatedAt"
)
