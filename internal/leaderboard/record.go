package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCorrupt is returned when stored records cannot be parsed. It only
	// concerns the leaderboard of one difficulty.
	ErrCorrupt = errors.New("corrupt leaderboard")
	// ErrPersistence is returned when records could not be written.
	ErrPersistence = errors.New("unable to persist leaderboard")
	ErrBadName     = errors.New("bad leaderboard name")
)

// Elapsed times are stored with hundredth of a second precision.
const Precision = 10 * time.Millisecond

type Record struct {
	Rank    int           `json:"rank"`
	At      time.Time     `json:"timestamp"`
	Elapsed time.Duration `json:"elapsed"`
}

// NewRecord rounds at and elapsed down to the precision they are persisted
// with, so that a stored record loads back unchanged.
func NewRecord(elapsed time.Duration, at time.Time) Record {
	if elapsed < 0 {
		elapsed = 0
	}
	return Record{
		At:      at.UTC().Truncate(time.Second),
		Elapsed: elapsed.Truncate(Precision),
	}
}

// Record implements [json.Marshaler]
func (r Record) MarshalJSON() ([]byte, error) {
	type record Record
	return json.Marshal(struct {
		record
		Time string `json:"time"`
	}{record(r), FormatElapsed(r.Elapsed)})
}

// ElapsedParts splits d into hours, minutes, seconds and hundredths.
func ElapsedParts(d time.Duration) (h, m, s, cs int) {
	cs = int(d / Precision)
	h = cs / 360000
	cs -= h * 360000
	m = cs / 6000
	cs -= m * 6000
	s = cs / 100
	cs -= s * 100
	return h, m, s, cs
}

func ElapsedFromParts(h, m, s, cs int) time.Duration {
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(cs)*Precision
}

// FormatElapsed renders d as hh:mm:ss.ff.
func FormatElapsed(d time.Duration) string {
	h, m, s, cs := ElapsedParts(d)
	return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, cs)
}

// Insert places r immediately before the first record that is strictly
// slower, so equal times keep earlier entries first, and renumbers ranks
// from 1. The returned slice is new; list is not modified.
func Insert(list []Record, r Record) (rank int, out []Record) {
	pos := len(list)
	for i, existing := range list {
		if existing.Elapsed > r.Elapsed {
			pos = i
			break
		}
	}

	out = make([]Record, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, r)
	out = append(out, list[pos:]...)
	for i := range out {
		out[i].Rank = i + 1
	}
	return pos + 1, out
}

// TopN returns at most n leading records.
func TopN(list []Record, n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	if n > len(list) {
		n = len(list)
	}
	return list[:n]
}

func FindRank(list []Record, rank int) (Record, bool) {
	for _, r := range list {
		if r.Rank == rank {
			return r, true
		}
	}
	return Record{}, false
}

// Validate checks that ranks run 1..n and times never decrease.
func Validate(list []Record) error {
	for i, r := range list {
		if r.Rank != i+1 {
			return fmt.Errorf("%w: record %d has rank %d", ErrCorrupt, i+1, r.Rank)
		}
		if r.Elapsed < 0 {
			return fmt.Errorf("%w: record %d has negative time", ErrCorrupt, i+1)
		}
		if i > 0 && list[i-1].Elapsed > r.Elapsed {
			return fmt.Errorf("%w: record %d is out of order", ErrCorrupt, i+1)
		}
	}
	return nil
}

func isNameChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' || c == '-' || c == '_'
}

// CheckName accepts difficulty names made of Latin letters, digits, '-' and
// '_'. Names end up in file names and keys.
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrBadName)
	}
	for _, c := range name {
		if !isNameChar(c) {
			return fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}
	return nil
}
