package store

import "context"

func (s *Store) GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	hash := HashAPIKey(apiKey)
	row := s.Pool.QueryRow(ctx,
		`SELECT id, name, api_key_hash, created_at FROM users WHERE api_key_hash = $1`, hash)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}
