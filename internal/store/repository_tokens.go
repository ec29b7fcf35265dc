package store

import "context"

func (s *Store) ListAgentTokens(ctx context.Context, agentID int64) ([]AgentToken, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT agent_id, token_symbol, token_address, position
		 FROM agent_tokens WHERE agent_id = $1 ORDER BY position`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AgentToken, 0, 8)
	for rows.Next() {
		var t AgentToken
		if err := rows.Scan(&t.AgentID, &t.TokenSymbol, &t.TokenAddress, &t.Position); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListAvailableTokens(ctx context.Context, chainID string) ([]AvailableToken, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT chain_id, symbol, address, logo_uri, decimals
		 FROM available_tokens WHERE chain_id = $1 ORDER BY position`, chainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AvailableToken, 0, 16)
	for rows.Next() {
		var t AvailableToken
		if err := rows.Scan(&t.ChainID, &t.Symbol, &t.Address, &t.LogoURI, &t.Decimals); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
