// Package score holds daily score records, the partitioned store contract
// they live behind, and the cache and writer that sit in front of it.
package score

import (
	"fmt"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
)

// Key identifies one member's record for one day. Records are partitioned
// by (Day, TeamCode).
type Key struct {
	Day      time.Time
	TeamCode string
	MemberID string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", period.FormatDay(k.Day), k.TeamCode, k.MemberID)
}

// Record is a member's scores for a single day.
type Record struct {
	Key
	Raw         product.Scores
	Reviewed    product.Scores
	Unavailable bool
	LastUpdated time.Time
	ReviewedAt  *time.Time
	ResetAt     *time.Time
}

// Active reports whether the record counts as a day of activity: the
// member was available and has any positive raw or reviewed score.
func (r Record) Active() bool {
	return !r.Unavailable && (r.Raw.AnyPositive() || r.Reviewed.AnyPositive())
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Raw = r.Raw.Clone()
	out.Reviewed = r.Reviewed.Clone()
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		out.ReviewedAt = &t
	}
	if r.ResetAt != nil {
		t := *r.ResetAt
		out.ResetAt = &t
	}
	return out
}

// emptyRecord is what a member with no stored record for the day looks like.
func emptyRecord(k Key) Record {
	return Record{Key: k, Raw: product.Scores{}, Reviewed: product.Scores{}}
}

// Patch is a partial update merged over an existing record. Score maps are
// merged per product; nil fields leave the stored value untouched.
type Patch struct {
	Raw         product.Scores
	Reviewed    product.Scores
	Unavailable *bool
	Reset       bool
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Raw) == 0 && len(p.Reviewed) == 0 && p.Unavailable == nil && !p.Reset
}

// Validate checks the score maps of the patch.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if err := p.Raw.Validate(); err != nil {
		return fmt.Errorf("raw scores: %w", err)
	}
	if err := p.Reviewed.Validate(); err != nil {
		return fmt.Errorf("reviewed scores: %w", err)
	}
	return nil
}

// ResetPatch zeroes both score maps.
func ResetPatch() Patch {
	return Patch{Raw: product.Zero(), Reviewed: product.Zero(), Reset: true}
}

// Apply merges the patch into r and returns the result. Stores without
// native merge support use it to honour the merge contract.
func (p Patch) Apply(r Record, now time.Time) Record {
	out := r.Clone()
	if out.Raw == nil {
		out.Raw = product.Scores{}
	}
	if out.Reviewed == nil {
		out.Reviewed = product.Scores{}
	}
	for k, v := range p.Raw {
		out.Raw[k] = v
	}
	for k, v := range p.Reviewed {
		out.Reviewed[k] = v
	}
	if p.Unavailable != nil {
		out.Unavailable = *p.Unavailable
	}
	if len(p.Reviewed) > 0 && !p.Reset {
		out.ReviewedAt = &now
	}
	if p.Reset {
		out.ResetAt = &now
	}
	out.LastUpdated = now
	return out
}
