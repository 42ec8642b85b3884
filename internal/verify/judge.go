package verify

import (
	"context"
	"fmt"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
)

// Judge is the session engine's verifier. Answer claims are checked against
// the checkpoint's question, photo claims against the classifier using the checkpoint's subject.
type Judge struct {
	Text  *Text
	Photo *Photo
}

var _ hunt.Verifier = (*Judge)(nil)

func (j *Judge) Verify(ctx context.Context, cp hunt.Checkpoint, claim hunt.Claim) (hunt.Verdict, error) {
	switch c := claim.(type) {
	case hunt.AnswerClaim:
		r, err := j.Text.Check(ctx, cp.ID, c.Answer)
		if err != nil {
			return hunt.Verdict{}, err
		}
		v := hunt.Verdict{Correct: r.Correct, Feedback: r.Message}
		if r.Correct {
			v.Points = cp.Points
			v.Confidence = 100
		}
		return v, nil

	case hunt.PhotoClaim:
		if j.Photo == nil {
			return hunt.Verdict{}, apperr.InvalidInput("image", "photo verification is not configured")
		}
		if cp.Subject == "" {
			return hunt.Verdict{}, apperr.InvalidInput("image", "checkpoint has no photo subject")
		}
		r := j.Photo.Check(ctx, cp.Subject, c.Image, c.MediaType)
		v := hunt.Verdict{Correct: r.Verified, Confidence: r.Confidence, Feedback: r.Feedback}
		if r.Verified {
			v.Points = cp.Points
		}
		return v, nil
	}
	return hunt.Verdict{}, fmt.Errorf("unsupported claim %T", claim)
}
