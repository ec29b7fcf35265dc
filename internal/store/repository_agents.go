package store

import (
	"context"
	"encoding/json"
	"fmt"
)

const agentColumns = `id, user_id, name, chain_id, wallet_address, strategy,
	stop_loss_usd, take_profit_usd, interval_seconds, end_date, is_running,
	knowledge, created_at`

func (s *Store) GetAgentByID(ctx context.Context, id int64) (*Agent, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	a, err := scanAgent(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (s *Store) ListAgentsByUser(ctx context.Context, userID int64) ([]Agent, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Agent, 0, 8)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) SetAgentRunning(ctx context.Context, id int64, running bool) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE agents SET is_running = $2 WHERE id = $1`, id, running)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAgentSettings rewrites the settings-owned columns and the token
// selection in one transaction. Columns the settings form does not own
// keep their values.
func (s *Store) UpdateAgentSettings(ctx context.Context, id int64, p UpdateAgentSettingsParams) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE agents
		 SET strategy = $2, stop_loss_usd = $3, take_profit_usd = $4,
		     interval_seconds = $5, end_date = $6
		 WHERE id = $1`,
		id, p.Strategy, p.StopLossUSD, p.TakeProfitUSD, p.IntervalSeconds, p.EndDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM agent_tokens WHERE agent_id = $1`, id); err != nil {
		return err
	}
	for i, tok := range p.Tokens {
		_, err := tx.Exec(ctx,
			`INSERT INTO agent_tokens (agent_id, token_symbol, token_address, position)
			 VALUES ($1, $2, $3, $4)`,
			id, tok.TokenSymbol, tok.TokenAddress, i)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) UpdateAgentKnowledge(ctx context.Context, id int64, entries []KnowledgeEntry) error {
	if entries == nil {
		entries = []KnowledgeEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	tag, err := s.Pool.Exec(ctx,
		`UPDATE agents SET knowledge = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*Agent, error) {
	var a Agent
	var knowledge []byte
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.ChainID, &a.WalletAddress,
		&a.Strategy, &a.StopLossUSD, &a.TakeProfitUSD, &a.IntervalSeconds,
		&a.EndDate, &a.IsRunning, &knowledge, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(knowledge) > 0 {
		if err := json.Unmarshal(knowledge, &a.Knowledge); err != nil {
			return nil, fmt.Errorf("agent %d knowledge: %w", a.ID, err)
		}
	}
	return &a, nil
}
