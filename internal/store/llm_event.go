package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo over raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO llm_events
		 (sequence, timestamp, provider, model, purpose, input_tokens, output_tokens,
		  latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC().Format(time.RFC3339),
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage,
		data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const llmEventColumns = `id, sequence, timestamp, provider, model, purpose,
	input_tokens, output_tokens, latency_ms, success, error_message,
	request_body, response_body`

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	where, args := buildEventWhere(opts)
	query := fmt.Sprintf(`SELECT %s FROM llm_events %s ORDER BY sequence DESC`,
		llmEventColumns, where)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM llm_events WHERE id = ?`, llmEventColumns), id)

	e, err := scanLLMEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens),
		        CAST(AVG(latency_ms) AS INTEGER)
		 FROM llm_events GROUP BY purpose ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var stats []LLMPurposeUsage
	for rows.Next() {
		var u LLMPurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, err
		}
		stats = append(stats, u)
	}
	return stats, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		 FROM llm_events GROUP BY model ORDER BY SUM(input_tokens) + SUM(output_tokens) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var stats []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, err
		}
		stats = append(stats, u)
	}
	return stats, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row scanner) (LLMEvent, error) {
	var e LLMEvent
	var ts string
	var success int

	err := row.Scan(
		&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		return e, err
	}

	e.Timestamp, _ = time.Parse(time.RFC3339, ts)
	e.Success = success != 0
	return e, nil
}

// buildEventWhere translates QueryOpts filters into a WHERE clause.
func buildEventWhere(opts QueryOpts) (string, []any) {
	var where []string
	var args []any

	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UTC().Format(time.RFC3339))
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UTC().Format(time.RFC3339))
	}

	if len(where) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
