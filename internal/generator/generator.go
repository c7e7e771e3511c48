// Package generator draws the random words a typing session types.
package generator

import (
	"math/rand"
	"sort"
	"time"
	"unicode"
)

// Generator wraps the random source used for word draws and decoration.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns an index in [0, n) for a positive n. cum holds cumulative
// weights, cum[i] being the total weight of entries 0..i; without usable
// weights the draw is uniform.
func (g *Generator) Pick(n int, cum []float64) int {
	if len(cum) != n || cum[n-1] <= 0 {
		return g.rnd.Intn(n)
	}
	target := g.rnd.Float64() * cum[n-1]
	return min(sort.SearchFloat64s(cum, target), n-1)
}

// Decorate upper-cases the first letter with probability capsPct and appends
// one mark from punctSet with probability punctPct.
func (g *Generator) Decorate(word string, capsPct, punctPct float64, punctSet []rune) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	if capsPct > 0 && g.rnd.Float64() <= capsPct {
		runes[0] = unicode.ToUpper(runes[0])
	}
	if punctPct > 0 && len(punctSet) > 0 && g.rnd.Float64() <= punctPct {
		runes = append(runes, punctSet[g.rnd.Intn(len(punctSet))])
	}
	return string(runes)
}

// WeakWeights returns cumulative weights over words. Every word weighs 1 plus
// factor for each occurrence of a weak character.
func WeakWeights(words []string, weakSet map[rune]struct{}, factor float64) []float64 {
	cum := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weight := 1.0
		for _, r := range word {
			if _, ok := weakSet[r]; ok {
				weight += factor
			}
		}
		total += weight
		cum[i] = total
	}
	return cum
}
