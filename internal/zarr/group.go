package zarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Group is an opened handle onto a group prefix. When the store carries a
// consolidated ".zmetadata" document the whole hierarchy is known after one
// GET; otherwise member arrays are opened by name on demand.
type Group struct {
	store Store
	path  string

	consolidated bool
	arrays       map[string]*ArrayMeta
	attrs        map[string]Attributes
}

// OpenGroup opens the group at the given key prefix. It prefers consolidated
// metadata and falls back to the ".zgroup" marker. Neither present means the
// prefix does not denote a group.
func OpenGroup(ctx context.Context, store Store, path string) (*Group, error) {
	g := &Group{store: store, path: path}

	cm := &ConsolidatedMetadata{}
	err := getJSON(ctx, store, joinKey(path, KeyConsolidated), cm)
	switch {
	case err == nil:
		for name, meta := range cm.Arrays {
			if err := meta.Validate(); err != nil {
				return nil, fmt.Errorf("open group %s: array %q: %w", path, name, err)
			}
		}
		g.consolidated = true
		g.arrays = cm.Arrays
		g.attrs = cm.Attrs
		return g, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("open group %s: %w", path, err)
	}

	var marker struct {
		ZarrFormat int `json:"zarr_format"`
	}
	if err := getJSON(ctx, store, joinKey(path, KeyGroup), &marker); err != nil {
		return nil, fmt.Errorf("open group %s: %w", path, err)
	}
	return g, nil
}

func (g *Group) Path() string { return g.path }

// ArrayNames lists member arrays, sorted. Only populated for consolidated
// stores; un-consolidated groups cannot be listed over a GET-only store.
func (g *Group) ArrayNames() []string {
	names := make([]string, 0, len(g.arrays))
	for name := range g.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenArray opens a member array by name.
func (g *Group) OpenArray(ctx context.Context, name string) (*Array, error) {
	if g.consolidated {
		meta, ok := g.arrays[name]
		if !ok {
			return nil, fmt.Errorf("group %s: %w: array %q", g.path, ErrNotFound, name)
		}
		return newArray(g.store, joinKey(g.path, name), meta, g.attrs[name])
	}
	return OpenArray(ctx, g.store, joinKey(g.path, name))
}

// getJSON fetches a key and decodes it as JSON into v.
func getJSON(ctx context.Context, store Store, key string, v any) error {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
