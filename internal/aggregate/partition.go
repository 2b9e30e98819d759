package aggregate

import (
	"time"

	"github.com/abdouthematrix/westcairostars/internal/score"
)

// Status is the outcome of one partition read.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PartitionResult is the typed outcome of reading the records of one
// (day, team) pair. A failed read carries its error and no records.
type PartitionResult struct {
	Day      time.Time
	TeamCode string
	Status   Status
	Records  []score.Record
	Err      error
}

func newResult(day time.Time, teamCode string, recs []score.Record, err error) PartitionResult {
	r := PartitionResult{Day: day, TeamCode: teamCode}
	switch {
	case err != nil:
		r.Status = StatusFailed
		r.Err = err
	case len(recs) == 0:
		r.Status = StatusEmpty
	default:
		r.Status = StatusOK
		r.Records = recs
	}
	return r
}
