package store

import (
	"context"
	"fmt"

	"github.com/roach88/ministore/internal/ir"
)

// SessionSummary describes one journaled session.
type SessionSummary struct {
	Session      string `json:"session"`
	Actions      int    `json:"actions"`
	Pending      int    `json:"pending"`  // actions without an outcome
	Rejected     int    `json:"rejected"` // outcomes with case Rejected
	OrdersPlaced int    `json:"orders_placed"`
	LastSeq      int64  `json:"last_seq"`
}

// ListSessions returns every session token in the journal, ordered by the
// seq of its first action, then by token.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session
		FROM actions
		GROUP BY session
		ORDER BY MIN(seq) ASC, session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: iterate: %w", err)
	}

	return sessions, nil
}

// Summarize computes the summary of one session. An unknown session yields
// a zero summary carrying the token.
func (s *Store) Summarize(ctx context.Context, session string) (SessionSummary, error) {
	sum := SessionSummary{Session: session}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(a.id),
			COUNT(a.id) - COUNT(o.id),
			COALESCE(SUM(CASE WHEN o."case" = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN o."case" = ? THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(MAX(a.seq, COALESCE(o.seq, 0))), 0)
		FROM actions a
		LEFT JOIN outcomes o ON o.action_id = a.id
		WHERE a.session = ?
	`, ir.CaseRejected, ir.CaseOrderPlaced, session).Scan(
		&sum.Actions, &sum.Pending, &sum.Rejected, &sum.OrdersPlaced, &sum.LastSeq,
	)
	if err != nil {
		return SessionSummary{}, fmt.Errorf("summarize session: %w", err)
	}

	return sum, nil
}

// LastSeq returns the highest seq journaled for a session, or 0.
// A resumed engine starts its clock here.
func (s *Store) LastSeq(ctx context.Context, session string) (int64, error) {
	sum, err := s.Summarize(ctx, session)
	if err != nil {
		return 0, err
	}
	return sum.LastSeq, nil
}
