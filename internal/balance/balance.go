// Package balance keeps the correct-answer letters of a multiple-choice batch
// close to uniform.
//
// Each pick weighs letter k by (total - count[k] + noise) / total, where
// total is the number of recorded picks plus one and noise is a fresh
// uniform [0,1) draw per letter. Rarely chosen letters gain weight while the
// noise keeps the sequence from becoming a fixed rotation.
package balance

import (
	"math/rand/v2"
	"strings"
)

// Letters are the answer categories in presentation order.
var Letters = []string{"A", "B", "C", "D"}

// epsilon keeps every letter selectable even for degenerate counts.
const epsilon = 1e-9

// Balance counts how often each letter has been the correct answer within
// one batch. The zero value is ready to use.
type Balance struct {
	counts [4]int
}

// Count returns the number of recorded picks of letter.
func (b *Balance) Count(letter string) int {
	i := indexOf(letter)
	if i < 0 {
		return 0
	}
	return b.counts[i]
}

// Total returns the number of recorded picks.
func (b *Balance) Total() int {
	n := 0
	for _, c := range b.counts {
		n += c
	}
	return n
}

// Record adds one pick of letter. Unknown letters are ignored.
func (b *Balance) Record(letter string) {
	if i := indexOf(letter); i >= 0 {
		b.counts[i]++
	}
}

// Counts returns a letter -> count snapshot.
func (b *Balance) Counts() map[string]int {
	out := make(map[string]int, len(Letters))
	for i, l := range Letters {
		out[l] = b.counts[i]
	}
	return out
}

// Noise returns a value in [0, 1).
type Noise func() float64

// FixedNoise returns a Noise that always yields v.
func FixedNoise(v float64) Noise {
	return func() float64 { return v }
}

// Sampler picks correct-answer letters. A Sampler is not safe for concurrent
// use; each batch owns one.
type Sampler struct {
	noise Noise
	rng   *rand.Rand
}

// NewSampler returns a Sampler drawing noise and selections from rng. A nil
// rng uses a randomly seeded source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{noise: rng.Float64, rng: rng}
}

// WithNoise replaces the per-letter noise source.
func (s *Sampler) WithNoise(n Noise) *Sampler {
	s.noise = n
	return s
}

// Weights returns the unnormalized weight of each letter, in Letters order.
func (s *Sampler) Weights(b *Balance) [4]float64 {
	total := float64(b.Total() + 1)
	var w [4]float64
	for i := range Letters {
		w[i] = max((total-float64(b.counts[i])+s.noise())/total, epsilon)
	}
	return w
}

// Pick draws one letter from the weighted distribution for b. The caller
// records the pick with b.Record.
func (s *Sampler) Pick(b *Balance) string {
	w := s.Weights(b)
	sum := 0.0
	for _, v := range w {
		sum += v
	}

	r := s.rng.Float64() * sum
	for i, v := range w {
		if r < v {
			return Letters[i]
		}
		r -= v
	}
	return Letters[len(Letters)-1]
}

func indexOf(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range Letters {
		if l == letter {
			return i
		}
	}
	return -1
}
