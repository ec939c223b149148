// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studentmarket-go/internal/markdown"
	"github.com/olegiv/studentmarket-go/internal/model"
)

const adColumns = `id, title, description, description_html, category, created_by, created_at`

// AdStore handles persistence for ads.
type AdStore struct {
	db *sql.DB
}

// NewAdStore creates an AdStore backed by db.
func NewAdStore(db *sql.DB) *AdStore {
	return &AdStore{db: db}
}

// AdFilter restricts the listing query. Zero values mean "no restriction";
// Category additionally treats model.CategoryAll as unrestricted.
type AdFilter struct {
	Category string
	Search   string
	OwnerID  string
}

// Save is the single write path for ads. It recomputes the sanitized HTML
// from the markdown source on every call, so description and description_html
// can never drift apart through any public path. A new ad (empty id) is
// assigned an id and creation time; an existing ad has its mutable fields
// updated in place.
func (s *AdStore) Save(ctx context.Context, ad *model.Ad) error {
	ad.DescriptionHTML = markdown.Render(ad.Description)

	if ad.ID == "" {
		ad.ID = uuid.NewString()
		ad.CreatedAt = time.Now().UTC()

		const query = `
			INSERT INTO ads (` + adColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.ExecContext(ctx, query,
			ad.ID, ad.Title, ad.Description, ad.DescriptionHTML,
			ad.Category, ad.CreatedBy, ad.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting ad: %w", err)
		}
		return nil
	}

	const query = `
		UPDATE ads
		SET title = ?, description = ?, description_html = ?, category = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		ad.Title, ad.Description, ad.DescriptionHTML, ad.Category, ad.ID,
	)
	if err != nil {
		return fmt.Errorf("updating ad %s: %w", ad.ID, err)
	}
	return requireRow(res)
}

// GetByID returns the ad with the given id, or ErrNotFound.
func (s *AdStore) GetByID(ctx context.Context, id string) (model.Ad, error) {
	const query = `SELECT ` + adColumns + ` FROM ads WHERE id = ?`

	var ad model.Ad
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ad.ID, &ad.Title, &ad.Description, &ad.DescriptionHTML,
		&ad.Category, &ad.CreatedBy, &ad.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ad{}, ErrNotFound
		}
		return model.Ad{}, fmt.Errorf("scanning ad: %w", err)
	}
	return ad, nil
}

// List returns one page of ads matching filter, newest first, together with
// the total number of matches before pagination. Pages are 1-indexed; a page
// beyond the last returns an empty slice and the unchanged total.
func (s *AdStore) List(ctx context.Context, filter AdFilter, page, pageSize int) ([]model.Ad, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, 0, fmt.Errorf("invalid page size %d", pageSize)
	}

	where, args := buildAdFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM ads` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting ads: %w", err)
	}

	// Ordering is descending by creation time with the id as a deterministic
	// tie-breaker.
	listQuery := `SELECT ` + adColumns + ` FROM ads` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing ads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ads := make([]model.Ad, 0, pageSize)
	for rows.Next() {
		var ad model.Ad
		err := rows.Scan(
			&ad.ID, &ad.Title, &ad.Description, &ad.DescriptionHTML,
			&ad.Category, &ad.CreatedBy, &ad.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning ad: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return ads, total, nil
}

// Delete removes an ad. Returns false when no such ad exists.
func (s *AdStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ads WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting ad %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteOrphans removes ads whose owner no longer exists. The user-delete
// cascade makes orphans impossible under normal operation; this sweep is the
// reconciliation pass behind it.
func (s *AdStore) DeleteOrphans(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ads WHERE created_by NOT IN (SELECT id FROM users)`)
	if err != nil {
		return 0, fmt.Errorf("deleting orphaned ads: %w", err)
	}
	return res.RowsAffected()
}

// CountByCategory returns the number of ads per category. Categories without
// ads are absent from the result.
func (s *AdStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM ads GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("counting ads by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var category string
		var n int64
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// buildAdFilter renders filter into a WHERE clause and its arguments.
func buildAdFilter(filter AdFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Category != "" && filter.Category != model.CategoryAll {
		clauses = append(clauses, `category = ?`)
		args = append(args, filter.Category)
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		clauses = append(clauses, `(lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if filter.OwnerID != "" {
		clauses = append(clauses, `created_by = ?`)
		args = append(args, filter.OwnerID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards so a search term only ever matches as a
// literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
