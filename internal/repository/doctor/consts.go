package doctor

const (
	// collection name
	doctorNode string = "doctors"

	// Fields' name and path
	IdFieldPath           string = "id"
	NameFieldPath         string = "name"
	SpecialtyFieldPath    string = "specialty"
	RatingFieldPath       string = "rating"
	ReviewsCountFieldPath string = "reviewsCount"
	CreatedAtFieldPath    string = "createdAt"

	noReviewsRating string = "0.0"
)
