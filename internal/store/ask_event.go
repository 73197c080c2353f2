package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAsk(ctx context.Context, data AskEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO ask_events
		 (sequence, timestamp, session_id, mode, want_roadmap, degraded, roadmap_steps, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC().Format(time.RFC3339),
		data.SessionID, data.Mode,
		boolToInt(data.WantRoadmap), boolToInt(data.Degraded),
		data.RoadmapSteps, data.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("save ask event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAskEvents(ctx context.Context, opts QueryOpts) ([]AskEvent, error) {
	where, args := buildEventWhere(opts)
	query := fmt.Sprintf(
		`SELECT id, sequence, timestamp, session_id, mode, want_roadmap, degraded, roadmap_steps, latency_ms
		 FROM ask_events %s ORDER BY sequence DESC`, where)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ask events: %w", err)
	}
	defer rows.Close()

	var events []AskEvent
	for rows.Next() {
		var e AskEvent
		var ts string
		var wantRoadmap, degraded int
		err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Mode,
			&wantRoadmap, &degraded, &e.RoadmapSteps, &e.LatencyMs)
		if err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		e.WantRoadmap = wantRoadmap != 0
		e.Degraded = degraded != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) AskStatsByMode(ctx context.Context) ([]AskModeStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mode, COUNT(*), SUM(degraded), SUM(want_roadmap),
		        CAST(AVG(latency_ms) AS INTEGER)
		 FROM ask_events GROUP BY mode ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query ask stats: %w", err)
	}
	defer rows.Close()

	var stats []AskModeStats
	for rows.Next() {
		var s AskModeStats
		if err := rows.Scan(&s.Mode, &s.Count, &s.Degraded, &s.WithRoadmap, &s.AvgLatencyMs); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
