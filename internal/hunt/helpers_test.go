package hunt_test

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
)

// fakeSupply serves questions in id order, honoring the requested count.
type fakeSupply struct {
	mu        sync.Mutex
	questions []hunt.Question
	calls     int
}

func newFakeSupply(n int) *fakeSupply {
	s := &fakeSupply{}
	for i := 1; i <= n; i++ {
		s.questions = append(s.questions, hunt.Question{
			ID:         int64(i),
			Prompt:     "question",
			Answer:     "Au",
			Options:    []string{"Au", "Ag", "Fe", "Cu"},
			Points:     10 * i,
			Difficulty: hunt.DifficultyEasy,
		})
	}
	return s
}

func (s *fakeSupply) RandomQuestions(_ context.Context, count int) ([]hunt.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if count > len(s.questions) {
		count = len(s.questions)
	}
	// Reverse order so the spawner has to sort.
	out := make([]hunt.Question, 0, count)
	for i := count - 1; i >= 0; i-- {
		out = append(out, s.questions[i])
	}
	return out, nil
}

func (s *fakeSupply) Question(_ context.Context, id int64) (hunt.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return hunt.Question{}, apperr.NotFound("question", id)
}

// answerVerifier judges AnswerClaims against the answer "Au".
var answerVerifier = hunt.VerifierFunc(func(_ context.Context, cp hunt.Checkpoint, claim hunt.Claim) (hunt.Verdict, error) {
	a, ok := claim.(hunt.AnswerClaim)
	if ok && strings.EqualFold(a.Answer, "au") {
		return hunt.Verdict{Correct: true, Points: cp.Points}, nil
	}
	return hunt.Verdict{}, nil
})

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func newTestGame(supply hunt.QuestionSupply, v hunt.Verifier, events *[]hunt.Event) *hunt.Game {
	var mu sync.Mutex
	return hunt.NewGame(hunt.GameConfig{
		Spawner:  hunt.NewSpawner(supply, seeded()),
		Verifier: v,
		OnEvent: func(e hunt.Event) {
			if events == nil {
				return
			}
			mu.Lock()
			*events = append(*events, e)
			mu.Unlock()
		},
	})
}
