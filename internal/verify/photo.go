package verify

import (
	"context"
	"log/slog"
)

// MinConfidence is the exclusive lower bound a classifier's confidence must
// exceed for a photo to count.
const MinConfidence = 70.0

const FeedbackRetry = "Sorry, there was an error verifying your image. Please try again!"

// Classification is the classifier's raw answer.
type Classification struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Feedback   string  `json:"feedback"`
}

// Classifier decides whether an image shows itemName.
type Classifier interface {
	Classify(ctx context.Context, itemName string, image []byte, mediaType string) (Classification, error)
}

type PhotoResult struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Feedback   string  `json:"feedback"`
}

// Photo checks photographic proof.
type Photo struct {
	Classifier Classifier
	Logger     *slog.Logger
}

// Check never fails: classifier errors become an unverified result with
// retry feedback.
func (p *Photo) Check(ctx context.Context, itemName string, image []byte, mediaType string) PhotoResult {
	c, err := p.Classifier.Classify(ctx, itemName, image, mediaType)
	if err != nil {
		p.logger().Warn("photo classification failed", "item", itemName, "error", err)
		return PhotoResult{Feedback: FeedbackRetry}
	}
	return PhotoResult{
		Verified:   c.Verified && c.Confidence > MinConfidence,
		Confidence: c.Confidence,
		Feedback:   c.Feedback,
	}
}

func (p *Photo) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
