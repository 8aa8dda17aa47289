package model

import "time"

// Insight is one generated sentence per ticker, overwritten wholesale
// each run.
type Insight struct {
	Ticker  string
	Insight string
	Date    string // YYYY-MM-DD
}

// Direction labels for a next-day prediction.
const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
)

// Prediction is the next-day price estimate for one ticker.
type Prediction struct {
	Ticker          string
	CurrentPrice    float64
	PredictedPrice  float64
	Direction       string
	PredictedPctChg float64
	Date            string // YYYY-MM-DD
}

// Sentiment labels derived from headline polarity.
const (
	SentimentPositive = "POSITIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentNegative = "NEGATIVE"
)

// NewsItem is a raw headline as returned by the news source. Link may
// be empty; it is informational only.
type NewsItem struct {
	Title string
	Link  string
}

// NewsSentiment is one scored headline row in the sentiment artifact.
type NewsSentiment struct {
	Ticker       string
	Title        string
	Link         string
	Score        float64 // polarity in [-1, 1]
	Label        string
	Subjectivity float64 // [0, 1]
	FetchedAt    time.Time
}
