package savegame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dreamstory/internal/sim"
	"github.com/vovakirdan/dreamstory/internal/storage"
)

// SlotKey is the key the single save slot lives under.
const SlotKey = "dream-story-save"

// ErrNoSave is returned when the slot has never been written or was cleared.
var ErrNoSave = errors.New("no saved game")

// Gateway is the single save slot, encoded with Encode and kept in a KV.
type Gateway struct {
	kv      storage.KV
	key     string
	catalog *sim.Catalog
	now     func() time.Time
}

// Gateway is the controller's save slot.
var _ sim.SaveSlot = (*Gateway)(nil)

// NewGateway returns a gateway over kv. A nil catalog validates against
// the default catalog.
func NewGateway(kv storage.KV, catalog *sim.Catalog) *Gateway {
	if catalog == nil {
		catalog = sim.DefaultCatalog()
	}
	return &Gateway{
		kv:      kv,
		key:     SlotKey,
		catalog: catalog,
		now:     time.Now,
	}
}

// Save overwrites the slot with s.
func (g *Gateway) Save(ctx context.Context, s sim.State) error {
	blob, err := Encode(s, g.now(), g.catalog)
	if err != nil {
		return err
	}
	return g.kv.Put(ctx, g.key, blob)
}

// Load returns the state held in the slot.
func (g *Gateway) Load(ctx context.Context) (sim.State, error) {
	save, err := g.Read(ctx)
	if err != nil {
		return sim.State{}, err
	}
	return save.State, nil
}

// Read decodes the slot, keeping the time it was written.
func (g *Gateway) Read(ctx context.Context) (Save, error) {
	blob, err := g.kv.Get(ctx, g.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Save{}, ErrNoSave
	}
	if err != nil {
		return Save{}, err
	}
	return Decode(blob, g.catalog)
}

// Exists reports whether the slot holds anything, valid or not.
func (g *Gateway) Exists(ctx context.Context) (bool, error) {
	_, err := g.kv.Get(ctx, g.key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// LastSaved returns when the slot was last written.
func (g *Gateway) LastSaved(ctx context.Context) (time.Time, error) {
	save, err := g.Read(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return save.SavedAt, nil
}

// Clear empties the slot.
func (g *Gateway) Clear(ctx context.Context) error {
	if err := g.kv.Delete(ctx, g.key); err != nil {
		return fmt.Errorf("clear save: %w", err)
	}
	return nil
}
