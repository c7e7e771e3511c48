package generator

// Options controls how a Source decorates the words it picks.
type Options struct {
	CapsPct    float64
	PunctPct   float64
	PunctSet   []rune
	WeakSet    map[rune]struct{}
	WeakFactor float64
}

// Source hands out random words from a fixed word list. It satisfies the
// word source contract used by typing sessions.
type Source struct {
	gen   *Generator
	words []string
	opts  Options
	cum   []float64
}

// NewSource builds a Source over words.
func NewSource(gen *Generator, words []string, opts Options) *Source {
	s := &Source{gen: gen, words: words, opts: opts}
	s.SetWeakSet(opts.WeakSet)
	return s
}

// RandomWords returns count words, biased toward weak characters when a weak
// set is configured.
func (s *Source) RandomWords(count int) []string {
	if count <= 0 || len(s.words) == 0 {
		return nil
	}
	out := make([]string, count)
	for i := range out {
		word := s.words[s.gen.Pick(len(s.words), s.cum)]
		out[i] = s.gen.Decorate(word, s.opts.CapsPct, s.opts.PunctPct, s.opts.PunctSet)
	}
	return out
}

// SetWeakSet replaces the weak character set and recomputes word weights. An
// empty set restores uniform draws.
func (s *Source) SetWeakSet(weakSet map[rune]struct{}) {
	s.opts.WeakSet = weakSet
	s.cum = nil
	if len(weakSet) > 0 {
		s.cum = WeakWeights(s.words, weakSet, s.opts.WeakFactor)
	}
}
