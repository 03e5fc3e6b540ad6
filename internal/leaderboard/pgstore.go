package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

type recordRow struct {
	Rank       int32     `db:"rank"`
	RecordedAt time.Time `db:"recorded_at"`
	ElapsedCs  int64     `db:"elapsed_cs"`
}

func (s *PostgresStore) Load(ctx context.Context, difficulty string) ([]Record, error) {
	rows, _ := s.db.Query(
		ctx,
		`SELECT rank, recorded_at, elapsed_cs
		FROM leaderboard_record
		WHERE difficulty = $1
		ORDER BY rank;`,
		difficulty,
	)
	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[recordRow])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(result))
	for _, row := range result {
		records = append(records, Record{
			Rank:    int(row.Rank),
			At:      row.RecordedAt.UTC(),
			Elapsed: time.Duration(row.ElapsedCs) * Precision,
		})
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Persist replaces the rows of difficulty in a single transaction.
func (s *PostgresStore) Persist(ctx context.Context, difficulty string, records []Record) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"DELETE FROM leaderboard_record WHERE difficulty = $1",
			difficulty,
		); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, r := range records {
			batch.Queue(`
			INSERT INTO leaderboard_record (
				difficulty, rank, recorded_at, elapsed_cs
			)
			VALUES (
				@difficulty, @rank, @recorded_at, @elapsed_cs
			);`,
				pgx.NamedArgs{
					"difficulty":  difficulty,
					"rank":        r.Rank,
					"recorded_at": r.At,
					"elapsed_cs":  int64(r.Elapsed / Precision),
				},
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
