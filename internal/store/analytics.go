package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visit is one tracked page request. The client address is only kept hashed.
type Visit struct {
	ID        int64     `db:"id" json:"id"`
	HashedIP  string    `db:"hashed_ip" json:"hashed_ip"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	Path      string    `db:"path" json:"path"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SectionReveals counts how often a section scrolled into view.
type SectionReveals struct {
	Section  string `db:"section" json:"section"`
	Reveals  int64  `db:"reveals" json:"reveals"`
	Sessions int64  `db:"sessions" json:"sessions"`
}

type Stats struct {
	TotalVisits    int64            `json:"total_visits"`
	UniqueVisitors int64            `json:"unique_visitors"`
	VisitsToday    int64            `json:"visits_today"`
	VisitsThisWeek int64            `json:"visits_this_week"`
	TotalReveals   int64            `json:"total_reveals"`
	RevealSessions int64            `json:"reveal_sessions"`
	Funnel         []SectionReveals `json:"funnel"`
	RecentVisits   []Visit          `json:"recent_visits"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

const recentVisits = 50

func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO visits (hashed_ip, user_agent, path, created_at) VALUES (?, ?, ?, ?)`),
		hashedIP, userAgent, path, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordReveal(ctx context.Context, sessionID uuid.UUID, section string) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO reveals (session_id, section, created_at) VALUES (?, ?, ?)`),
		sessionID.String(), section, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: record reveal: %w", err)
	}
	return nil
}

// Stats summarizes visits and the reveal funnel.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{GeneratedAt: now}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisits, `SELECT COUNT(*) FROM visits`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitsToday, `SELECT COUNT(*) FROM visits WHERE created_at >= ?`, []any{today}},
		{&stats.VisitsThisWeek, `SELECT COUNT(*) FROM visits WHERE created_at >= ?`, []any{week}},
		{&stats.TotalReveals, `SELECT COUNT(*) FROM reveals`, nil},
		{&stats.RevealSessions, `SELECT COUNT(DISTINCT session_id) FROM reveals`, nil},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, s.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	if err := s.db.SelectContext(ctx, &stats.Funnel, `
		SELECT section, COUNT(*) AS reveals, COUNT(DISTINCT session_id) AS sessions
		FROM reveals
		GROUP BY section
		ORDER BY reveals DESC, section`); err != nil {
		return nil, fmt.Errorf("store: stats funnel: %w", err)
	}

	if err := s.db.SelectContext(ctx, &stats.RecentVisits, s.db.Rebind(`
		SELECT id, hashed_ip, user_agent, path, created_at
		FROM visits
		ORDER BY created_at DESC, id DESC
		LIMIT ?`), recentVisits); err != nil {
		return nil, fmt.Errorf("store: stats recent: %w", err)
	}

	return stats, nil
}

// CleanupOlderThan deletes analytics older than age and returns how many rows went.
func (s *Store) CleanupOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := s.clock.Now().UTC().Add(-age)

	var total int64
	for _, table := range []string{"visits", "reveals"} {
		res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM `+table+` WHERE created_at < ?`), cutoff)
		if err != nil {
			return total, fmt.Errorf("store: cleanup %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("store: cleanup %s rows affected: %w", table, err)
		}
		total += n
	}
	return total, nil
}
