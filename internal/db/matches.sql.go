package db

import (
	"context"
	"time"
)

const insertMatch = `-- name: InsertMatch :exec
INSERT INTO matches (id, winner_id, loser_id, round, created_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertMatchParams struct {
	ID        string
	WinnerID  int64
	LoserID   int64
	Round     int64
	CreatedAt time.Time
}

func (q *Queries) InsertMatch(ctx context.Context, arg InsertMatchParams) error {
	_, err := q.db.ExecContext(ctx, insertMatch,
		arg.ID,
		arg.WinnerID,
		arg.LoserID,
		arg.Round,
		arg.CreatedAt,
	)
	return err
}

const listMatches = `-- name: ListMatches :many
SELECT id, winner_id, loser_id, round, created_at FROM matches
ORDER BY created_at, id
`

func (q *Queries) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.ID,
			&i.WinnerID,
			&i.LoserID,
			&i.Round,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllMatches = `-- name: DeleteAllMatches :exec
DELETE FROM matches
`

func (q *Queries) DeleteAllMatches(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllMatches)
	return err
}

const countRecordedResults = `-- name: CountRecordedResults :many
SELECT
    p.id,
    p.wins,
    p.matches,
    (SELECT COUNT(*) FROM matches m WHERE m.winner_id = p.id) AS recorded_wins,
    (SELECT COUNT(*) FROM matches m WHERE m.winner_id = p.id OR m.loser_id = p.id) AS recorded_matches
FROM players p
ORDER BY p.id
`

type CountRecordedResultsRow struct {
	ID              int64
	Wins            int64
	Matches         int64
	RecordedWins    int64
	RecordedMatches int64
}

func (q *Queries) CountRecordedResults(ctx context.Context) ([]CountRecordedResultsRow, error) {
	rows, err := q.db.QueryContext(ctx, countRecordedResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountRecordedResultsRow
	for rows.Next() {
		var i CountRecordedResultsRow
		if err := rows.Scan(
			&i.ID,
			&i.Wins,
			&i.Matches,
			&i.RecordedWins,
			&i.RecordedMatches,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
