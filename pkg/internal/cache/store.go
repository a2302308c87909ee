package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

var S *ristretto_store.RistrettoStore

func NewStore() error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return fmt.Errorf("unable to initialize local cache: %w", err)
	}

	S = ristretto_store.NewRistretto(client)
	return nil
}
