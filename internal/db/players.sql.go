package db

import (
	"context"
)

const insertPlayer = `-- name: InsertPlayer :one
INSERT INTO players (name, wins, matches, created_at)
VALUES (?, 0, 0, CURRENT_TIMESTAMP)
RETURNING id
`

func (q *Queries) InsertPlayer(ctx context.Context, name string) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertPlayer, name)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const countPlayers = `-- name: CountPlayers :one
SELECT COUNT(*) FROM players
`

func (q *Queries) CountPlayers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPlayers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getPlayer = `-- name: GetPlayer :one
SELECT id, name, wins, matches, created_at FROM players
WHERE id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Wins,
		&i.Matches,
		&i.CreatedAt,
	)
	return i, err
}

const listPlayers = `-- name: ListPlayers :many
SELECT id, name, wins, matches, created_at FROM players
ORDER BY id
`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Wins,
			&i.Matches,
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

const listStandings = `-- name: ListStandings :many
SELECT id, name, wins, matches FROM standings
ORDER BY wins DESC, id ASC
`

func (q *Queries) ListStandings(ctx context.Context) ([]Standing, error) {
	rows, err := q.db.QueryContext(ctx, listStandings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Standing
	for rows.Next() {
		var i Standing
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Wins,
			&i.Matches,
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

const creditWin = `-- name: CreditWin :execrows
UPDATE players
SET wins = wins + 1, matches = matches + 1
WHERE id = ?
`

func (q *Queries) CreditWin(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, creditWin, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const creditLoss = `-- name: CreditLoss :execrows
UPDATE players
SET matches = matches + 1
WHERE id = ?
`

func (q *Queries) CreditLoss(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, creditLoss, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetPlayerRecords = `-- name: ResetPlayerRecords :exec
UPDATE players SET wins = 0, matches = 0
`

func (q *Queries) ResetPlayerRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetPlayerRecords)
	return err
}

const deleteAllPlayers = `-- name: DeleteAllPlayers :exec
DELETE FROM players
`

func (q *Queries) DeleteAllPlayers(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPlayers)
	return err
}
