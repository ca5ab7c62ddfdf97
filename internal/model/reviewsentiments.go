package model

import "time"

type ReviewSentiments struct {
	DoctorId        *string     `firestore:"doctorId,omitempty" json:"doctorId,omitempty"`
	Sentiments      []Sentiment `firestore:"sentiments" json:"sentiments"`
	ReviewsAnalyzed int         `firestore:"reviewsAnalyzed" json:"reviewsAnalyzed"`
	CreatedAt       time.Time   `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       time.Time   `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Sentiment struct {
	Label string `firestore:"label,omitempty" json:"label,omitempty"`
	Score int    `firestore:"score" json:"score"`
}
