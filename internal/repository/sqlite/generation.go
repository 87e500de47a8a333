package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhasan/codepilot/internal/model"
	"github.com/mhasan/codepilot/internal/repository"
)

// compile-time check that *GenerationRepo implements repository.GenerationRepository
var _ repository.GenerationRepository = (*GenerationRepo)(nil)

// GenerationRepo implements repository.GenerationRepository on the shared pool.
type GenerationRepo struct {
	conn *sql.DB
}

// Create inserts a new generation record.
//
// The foreign key on user_id means this fails if the referenced user doesn't
// exist — we let that surface as a plain database error (the request-level
// validation has already checked the id is a positive integer, not that the
// user exists, matching the single-insert write path).
func (r *GenerationRepo) Create(ctx context.Context, gen *model.Generation) error {
	gen.CreatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO generations (user_id, prompt, language, code, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		gen.UserID,
		gen.Prompt,
		gen.Language,
		gen.Code,
		gen.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating generation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading generation id: %w", err)
	}
	gen.ID = id

	return nil
}

// CountByUser returns the total number of generations owned by a user.
// Paired with ListByUser by the history read path; the two queries run on
// plain pooled connections with no shared snapshot (see the history service).
func (r *GenerationRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generations WHERE user_id = ?`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting generations for user %d: %w", userID, err)
	}
	return count, nil
}

// ListByUser retrieves one page of a user's generations, newest first.
//
// The secondary `id DESC` ordering breaks ties between rows created within the
// same timestamp granularity, so page boundaries are deterministic.
func (r *GenerationRepo) ListByUser(ctx context.Context, userID int64, opts repository.ListOptions) ([]model.Generation, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, prompt, language, code, created_at
		 FROM generations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing generations for user %d: %w", userID, err)
	}
	// sql.Rows holds a connection from the pool — always close it, or the
	// connection is never returned and the pool eventually runs dry.
	defer rows.Close()

	generations := make([]model.Generation, 0, limit)

	for rows.Next() {
		var g model.Generation
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Prompt, &g.Language, &g.Code, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning generation row: %w", err)
		}
		generations = append(generations, g)
	}

	// rows.Err() catches errors that happened DURING iteration (e.g. the
	// connection dropping mid-read), which rows.Next() silently swallows.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating generations: %w", err)
	}

	return generations, nil
}
