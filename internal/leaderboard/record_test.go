package leaderboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func rec(elapsed time.Duration) Record {
	return NewRecord(elapsed, epoch)
}

func elapsedOf(list []Record) []time.Duration {
	out := make([]time.Duration, len(list))
	for i, r := range list {
		out[i] = r.Elapsed
	}
	return out
}

func ranksOf(list []Record) []int {
	out := make([]int, len(list))
	for i, r := range list {
		out[i] = r.Rank
	}
	return out
}

func TestInsertIntoEmpty(t *testing.T) {
	rank, list := Insert(nil, rec(time.Second))
	assert.Equal(t, 1, rank)
	assert.Equal(t, []int{1}, ranksOf(list))
}

func TestInsertMiddle(t *testing.T) {
	_, list := Insert(nil, rec(time.Minute))
	_, list = Insert(list, rec(2*time.Minute))

	rank, list := Insert(list, rec(90*time.Second))
	assert.Equal(t, 2, rank)
	assert.Equal(t, []int{1, 2, 3}, ranksOf(list))
	assert.Equal(t,
		[]time.Duration{time.Minute, 90 * time.Second, 2 * time.Minute},
		elapsedOf(list),
	)
}

func TestInsertIncreasingKeepsInsertionOrder(t *testing.T) {
	var list []Record
	for i := 1; i <= 12; i++ {
		var rank int
		rank, list = Insert(list, rec(time.Duration(i)*time.Second))
		assert.Equal(t, i, rank)
	}
	for i, r := range list {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, time.Duration(i+1)*time.Second, r.Elapsed)
	}
}

func TestInsertFasterShiftsOthersDown(t *testing.T) {
	var list []Record
	for _, s := range []int{10, 20, 30} {
		_, list = Insert(list, rec(time.Duration(s)*time.Second))
	}
	before := list

	rank, after := Insert(list, rec(5*time.Second))
	assert.Equal(t, 1, rank)
	for i, r := range before {
		assert.Equal(t, i+1, r.Rank, "input must not be modified")
		assert.Equal(t, r.Elapsed, after[i+1].Elapsed)
		assert.Equal(t, r.Rank+1, after[i+1].Rank)
	}
}

func TestInsertEqualTimeGoesAfterExisting(t *testing.T) {
	first := NewRecord(time.Minute, epoch)
	_, list := Insert(nil, first)
	_, list = Insert(list, rec(2*time.Minute))

	second := NewRecord(time.Minute, epoch.Add(time.Hour))
	rank, list := Insert(list, second)
	assert.Equal(t, 2, rank)
	assert.Equal(t, first.At, list[0].At)
	assert.Equal(t, second.At, list[1].At)
}

func TestTopN(t *testing.T) {
	var list []Record
	for i := range 15 {
		_, list = Insert(list, rec(time.Duration(i)*time.Second))
	}
	assert.Len(t, TopN(list, 10), 10)
	assert.Len(t, TopN(list, 20), 15)
	assert.Empty(t, TopN(list, 0))

	rank, list := Insert(list, rec(time.Hour))
	assert.Equal(t, 16, rank)
	assert.NotContains(t, ranksOf(TopN(list, 10)), rank)

	r, ok := FindRank(list, rank)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, r.Elapsed)

	_, ok = FindRank(list, 17)
	assert.False(t, ok)
}

func TestNewRecordNormalizes(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 999, time.FixedZone("X", 3600))
	r := NewRecord(1234567*time.Microsecond, at)
	assert.Equal(t, 1230*time.Millisecond, r.Elapsed)
	assert.Equal(t, time.UTC, r.At.Location())
	assert.Equal(t, 0, r.At.Nanosecond())

	assert.Equal(t, time.Duration(0), NewRecord(-time.Second, at).Elapsed)
}

func TestElapsedParts(t *testing.T) {
	d := 26*time.Hour + 3*time.Minute + 4*time.Second + 560*time.Millisecond
	h, m, s, cs := ElapsedParts(d)
	assert.Equal(t, []int{26, 3, 4, 56}, []int{h, m, s, cs})
	assert.Equal(t, d, ElapsedFromParts(h, m, s, cs))
	assert.Equal(t, "26:03:04.56", FormatElapsed(d))
	assert.Equal(t, "00:01:30.00", FormatElapsed(90*time.Second))
}

func TestValidate(t *testing.T) {
	_, list := Insert(nil, rec(time.Second))
	_, list = Insert(list, rec(2*time.Second))
	require.NoError(t, Validate(list))

	gap := []Record{{Rank: 1}, {Rank: 3}}
	assert.ErrorIs(t, Validate(gap), ErrCorrupt)

	unordered := []Record{{Rank: 1, Elapsed: time.Minute}, {Rank: 2, Elapsed: time.Second}}
	assert.ErrorIs(t, Validate(unordered), ErrCorrupt)
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("Medium"))
	assert.NoError(t, CheckName("custom_9x9-10"))
	assert.ErrorIs(t, CheckName(""), ErrBadName)
	assert.ErrorIs(t, CheckName("../etc"), ErrBadName)
	assert.ErrorIs(t, CheckName("a b"), ErrBadName)
}

func TestRecordJSON(t *testing.T) {
	r := NewRecord(90*time.Second, epoch)
	r.Rank = 2

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"rank":2,"timestamp":"2024-05-01T12:00:00Z","elapsed":90000000000,"time":"00:01:30.00"}`,
		string(b),
	)

	var back Record
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}
