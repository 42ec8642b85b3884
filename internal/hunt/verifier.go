package hunt

import "context"

// Claim is what a player submits to collect a checkpoint: a typed answer
// or photographic proof.
type Claim interface {
	isClaim()
}

// AnswerClaim is a selected option string.
type AnswerClaim struct {
	Answer string
}

// PhotoClaim is image data showing the checkpoint's subject.
type PhotoClaim struct {
	Image     []byte
	MediaType string
}

func (AnswerClaim) isClaim() {}
func (PhotoClaim) isClaim()  {}

// Verdict normalizes the text and photo judge results. Points is what a
// correct claim is worth; Confidence is only meaningful for photos.
type Verdict struct {
	Correct    bool
	Points     int
	Confidence float64
	Feedback   string
}

// Verifier judges a claim against a checkpoint. Implementations may be slow
// (network); the engine never holds its lock across a call.
type Verifier interface {
	Verify(ctx context.Context, cp Checkpoint, claim Claim) (Verdict, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, cp Checkpoint, claim Claim) (Verdict, error)

func (f VerifierFunc) Verify(ctx context.Context, cp Checkpoint, claim Claim) (Verdict, error) {
	return f(ctx, cp, claim)
}
