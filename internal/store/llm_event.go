package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// sqlEventRepo implements EventRepo on the llm_requests table.
type sqlEventRepo struct {
	s *Store
}

func (r *sqlEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`INSERT INTO llm_requests
		(created_at, provider, model, purpose, input_tokens, output_tokens, latency_ms,
		 success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		time.Now().UnixMilli(),
		data.Provider,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
		data.RequestBody,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const llmEventColumns = `id, created_at, provider, model, purpose, input_tokens, output_tokens,
	latency_ms, success, error_message, request_body, response_body`

func (r *sqlEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}
	if !opts.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := "SELECT " + llmEventColumns + " FROM llm_requests"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *sqlEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.rebind(
		"SELECT "+llmEventColumns+" FROM llm_requests WHERE id = ?"), id)
	e, err := scanLLMEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *sqlEventRepo) UsageByCandidate(ctx context.Context) ([]CandidateUsage, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT provider, model, COUNT(*),
		SUM(CASE WHEN success THEN 0 ELSE 1 END),
		COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0),
		COALESCE(AVG(latency_ms), 0)
		FROM llm_requests GROUP BY provider, model
		ORDER BY COUNT(*) DESC, provider, model`)
	if err != nil {
		return nil, fmt.Errorf("query usage by candidate: %w", err)
	}
	defer rows.Close()

	var out []CandidateUsage
	for rows.Next() {
		var (
			u   CandidateUsage
			avg float64
		)
		if err := rows.Scan(&u.Provider, &u.Model, &u.Calls, &u.Failures,
			&u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanLLMEvent(row rowScanner) (*LLMEvent, error) {
	var (
		e         LLMEvent
		createdAt int64
	)
	err := row.Scan(&e.ID, &createdAt, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = time.UnixMilli(createdAt).UTC()
	return &e, nil
}
