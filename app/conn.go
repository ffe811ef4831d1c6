package app

import (
	"context"
	"fmt"
)

// withConn borrows a connection for the duration of fn and always releases it.
func withConn[T any](ctx context.Context, store Store, fn func(repo Repository) (T, error)) (res T, err error) {
	repo, err := store.Conn(ctx)
	if err != nil {
		return res, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release connection: %w", cerr)
		}
	}()

	return fn(repo)
}
