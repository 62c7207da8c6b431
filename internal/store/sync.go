package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// SyncResult reports what Sync wrote.
type SyncResult struct {
	Added     []task.Task `json:"added"`
	Refreshed []task.Task `json:"refreshed"`
	Unchanged int         `json:"unchanged"`
}

// Sync copies the tasks of remote into local. Unknown ids are added as
// they come, unclassified for a fresh remote card. Known ids take the
// remote title, description and tags and keep their local placement.
// Local tasks missing from remote are left alone.
func Sync(ctx context.Context, remote Source, local Store) (SyncResult, error) {
	incoming, err := remote.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	existing, err := local.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("reading local tasks: %w", err)
	}
	byID := make(map[int]task.Task, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	res := SyncResult{Added: []task.Task{}, Refreshed: []task.Task{}}
	for _, r := range incoming {
		cur, ok := byID[r.ID]
		if !ok {
			if err := local.Put(ctx, r); err != nil {
				return res, fmt.Errorf("adding task #%d: %w", r.ID, err)
			}
			res.Added = append(res.Added, r)
			continue
		}

		next := cur.Clone()
		next.Title = r.Title
		next.Description = r.Description
		next.Tags = slices.Clone(r.Tags)
		if sameContent(cur, next) {
			res.Unchanged++
			continue
		}
		if err := local.Put(ctx, next); err != nil {
			return res, fmt.Errorf("refreshing task #%d: %w", r.ID, err)
		}
		res.Refreshed = append(res.Refreshed, next)
	}
	return res, nil
}

func sameContent(a, b task.Task) bool {
	return a.Title == b.Title && a.Description == b.Description && slices.Equal(a.Tags, b.Tags)
}
