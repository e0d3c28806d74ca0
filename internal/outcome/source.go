// Package outcome supplies the winning category for a resolution. The
// Source capability hides the selection policy, so the uniform default
// can be swapped for a seeded draw in tests or a commit/reveal scheme
// later without touching the wager engine.
package outcome

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws one category. A draw never depends on wager state and
// serves exactly one resolution.
type Source interface {
	Draw() string
}

// Uniform picks each category with equal probability.
type Uniform struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	categories []string
}

func NewUniform(categories []string) *Uniform {
	return NewSeeded(time.Now().UnixNano(), categories)
}

// NewSeeded is the deterministic variant for tests and replay.
func NewSeeded(seed int64, categories []string) *Uniform {
	return &Uniform{
		rnd:        rand.New(rand.NewSource(seed)),
		categories: append([]string(nil), categories...),
	}
}

func (u *Uniform) Draw() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.categories[u.rnd.Intn(len(u.categories))]
}

// Scripted replays a fixed sequence of results, repeating the last one
// when the sequence runs out. Test implementations force a win or a
// loss with it.
type Scripted struct {
	mu      sync.Mutex
	queue   []string
	current string
}

func NewScripted(results ...string) *Scripted {
	s := &Scripted{}
	if len(results) > 0 {
		s.queue = append(s.queue, results...)
	}
	return s
}

func (s *Scripted) Draw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) > 0 {
		s.current = s.queue[0]
		s.queue = s.queue[1:]
	}
	return s.current
}
