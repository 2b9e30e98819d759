package product

import "fmt"

// Scores maps a product to a non-negative count. A missing key means zero.
type Scores map[ID]int

// Zero returns a map with every product explicitly set to zero.
func Zero() Scores {
	s := make(Scores, len(all))
	for _, p := range all {
		s[p] = 0
	}
	return s
}

// Total sums the scores of all known products.
func (s Scores) Total() int {
	total := 0
	for _, p := range all {
		total += s[p]
	}
	return total
}

// AnyPositive reports whether at least one product has a score above zero.
func (s Scores) AnyPositive() bool {
	for _, p := range all {
		if s[p] > 0 {
			return true
		}
	}
	return false
}

// NonZeroCount returns how many distinct products have a non-zero score.
func (s Scores) NonZeroCount() int {
	n := 0
	for _, p := range all {
		if s[p] != 0 {
			n++
		}
	}
	return n
}

// Add accumulates other into s product by product. Unknown keys are ignored.
func (s Scores) Add(other Scores) {
	for _, p := range all {
		if v, ok := other[p]; ok {
			s[p] += v
		}
	}
}

// Clone returns an independent copy containing only known products.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for _, p := range all {
		if v, ok := s[p]; ok {
			out[p] = v
		}
	}
	return out
}

// Validate checks that every key is a known product and no value is negative.
func (s Scores) Validate() error {
	for k, v := range s {
		if !k.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownProduct, string(k))
		}
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeScore, k, v)
		}
	}
	return nil
}
