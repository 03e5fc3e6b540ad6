package leaderboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const fieldsPerRecord = 6

// FileStore keeps every difficulty in its own CSV file named
// leaderboard<Difficulty>.csv. Each line is
//
//	rank,timestamp,hours,minutes,seconds,hundredths
//
// with an RFC 3339 UTC timestamp.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create leaderboard dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Path(difficulty string) string {
	return filepath.Join(s.dir, "leaderboard"+difficulty+".csv")
}

func (s *FileStore) Load(_ context.Context, difficulty string) ([]Record, error) {
	if err := CheckName(difficulty); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path(difficulty))
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeCSV(f)
}

// Persist writes to a temporary file next to the target and renames it
// over the old one.
func (s *FileStore) Persist(_ context.Context, difficulty string, records []Record) error {
	if err := CheckName(difficulty); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "leaderboard"+difficulty+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(difficulty)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func EncodeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	for _, r := range records {
		h, m, sec, cs := ElapsedParts(r.Elapsed)
		if err := cw.Write([]string{
			strconv.Itoa(r.Rank),
			r.At.UTC().Format(time.RFC3339),
			strconv.Itoa(h),
			strconv.Itoa(m),
			strconv.Itoa(sec),
			strconv.Itoa(cs),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func DecodeCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fieldsPerRecord
	cr.ReuseRecord = true

	records := []Record{}
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		record, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, line, err)
		}
		records = append(records, record)
	}

	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func parseFields(fields []string) (Record, error) {
	var (
		r    Record
		nums [5]int
		err  error
	)
	for i, j := range [...]int{0, 2, 3, 4, 5} {
		if nums[i], err = strconv.Atoi(fields[j]); err != nil {
			return r, fmt.Errorf("field %d: %w", j+1, err)
		}
	}
	rank, h, m, s, cs := nums[0], nums[1], nums[2], nums[3], nums[4]
	if h < 0 || m < 0 || m > 59 || s < 0 || s > 59 || cs < 0 || cs > 99 {
		return r, fmt.Errorf("time %d:%d:%d.%d out of range", h, m, s, cs)
	}

	at, err := time.Parse(time.RFC3339, fields[1])
	if err != nil {
		return r, fmt.Errorf("field 2: %w", err)
	}

	r.Rank = rank
	r.At = at.UTC()
	r.Elapsed = ElapsedFromParts(h, m, s, cs)
	return r, nil
}
