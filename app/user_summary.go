package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"isucari/domain"
)

// LookupUserSimple resolves the public profile of one user.
func LookupUserSimple(ctx context.Context, repo Repository, userID int64) (domain.UserSimple, error) {
	user, err := repo.GetUserSimpleByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserSimple{}, ErrUserNotFound
		}
		return domain.UserSimple{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

// LookupUserSimples resolves many users with a single query. Missing users
// are absent from the result.
func LookupUserSimples(ctx context.Context, repo Repository, userIDs []int64) (map[int64]domain.UserSimple, error) {
	ids := uniqueIDs(userIDs)
	users := make(map[int64]domain.UserSimple, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := repo.GetUserSimplesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
