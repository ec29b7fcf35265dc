package store

import "context"

// RecordFaucetGrant appends one audit row per faucet call; balances are
// never derived from these rows, the engine snapshot stays the source of
// truth.
func (s *Store) RecordFaucetGrant(ctx context.Context, agentID int64, symbol, status string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO faucet_grants (id, agent_id, symbol, status)
		 VALUES ($1, $2, $3, $4)`,
		id, agentID, symbol, status)
	return id, err
}
