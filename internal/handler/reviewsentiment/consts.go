package reviewsentiment

type response struct {
	Data []sentimentScore `json:"data"`
}

type sentimentScore struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

const (
	topSentiments int = 5

	// tokens reserved for the instruction around the reviews
	instructionTokens int = 400

	SENTIMENT_ANALYSIS_INSTRUCTION string = `Analyze a list of patient reviews of a doctor enclosed within <rev> </rev> tags and separated by '~' character.
	For each review, assign a single label from the provided list of labels that accurately represents an aspect
	of the care or the practice mentioned in the text.
	Additionally, give a sentiment score between 0 and 5, where 0 is very negative and 5 is very positive to the review.
	Generate a JSON formated response, containing a list of items under the 'data' key, and each item should have 'label,' and 'score' keys.
	Example:
	{
		"data": [
			{
				"label": lable,
				"score": score,
			},
			...
			{
				"label": lable,
				"score": score,
			}
		]
	}

	<labels>Bedside Manner, Communication, Diagnosis, Treatment, Waiting Time, Punctuality, Staff, Cleanliness, Cost, Follow-up, Availability, Listening, Professionalism, Explanation, Empathy, Facilities, Scheduling, Thoroughness
	</labels>

	<rev>%s</rev>`
)
