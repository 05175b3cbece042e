package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an injected (mock) client. Test helper only.
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{client: client}
}
