package db

import (
	"context"

	"kwresearch/internal/models"
)

// IncrementKeywordLookup upserts a keyword lookup count by operation.
func (d *DB) IncrementKeywordLookup(ctx context.Context, keyword, operation string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO keyword_lookups (keyword, operation, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (keyword, operation) DO UPDATE
		SET count = keyword_lookups.count + 1, last_seen_at = NOW()
	`, keyword, operation)
	return err
}

// GetAllKeywordLookups returns all keyword lookup rows for metrics export.
func (d *DB) GetAllKeywordLookups(ctx context.Context) ([]models.KeywordLookup, error) {
	rows, err := d.Pool.Query(ctx, `SELECT keyword, operation, count, last_seen_at FROM keyword_lookups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.KeywordLookup
	for rows.Next() {
		var l models.KeywordLookup
		if err := rows.Scan(&l.Keyword, &l.Operation, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// GetTopKeywordLookups returns the most researched keywords for an operation.
func (d *DB) GetTopKeywordLookups(ctx context.Context, operation string, limit int) ([]models.KeywordLookup, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT keyword, operation, count, last_seen_at
		FROM keyword_lookups
		WHERE operation = $1
		ORDER BY count DESC, keyword
		LIMIT $2
	`, operation, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.KeywordLookup
	for rows.Next() {
		var l models.KeywordLookup
		if err := rows.Scan(&l.Keyword, &l.Operation, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
