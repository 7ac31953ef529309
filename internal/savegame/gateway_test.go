package savegame

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/dreamstory/internal/sim"
	"github.com/vovakirdan/dreamstory/internal/storage"
)

func TestGatewaySaveLoad(t *testing.T) {
	kv := storage.NewMemory()
	g := NewGateway(kv, nil)
	g.now = func() time.Time { return savedAt }
	ctx := context.Background()

	if ok, _ := g.Exists(ctx); ok {
		t.Error("Fresh slot should be empty")
	}
	if _, err := g.Load(ctx); !errors.Is(err, ErrNoSave) {
		t.Errorf("Expected ErrNoSave, got %v", err)
	}

	want := midAction(t)
	if err := g.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := kv.Get(ctx, SlotKey); err != nil {
		t.Errorf("Expected blob under %q: %v", SlotKey, err)
	}

	got, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Loaded state differs:\n got  %+v\n want %+v", got, want)
	}

	when, err := g.LastSaved(ctx)
	if err != nil || !when.Equal(savedAt) {
		t.Errorf("Expected last saved %v, got %v (%v)", savedAt, when, err)
	}

	if err := g.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if ok, _ := g.Exists(ctx); ok {
		t.Error("Slot should be empty after Clear")
	}
}

func TestGatewayOverSQLite(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "dream.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	ctrl := sim.NewController(nil, NewGateway(store, nil), nil)
	ctrl.Step(10)
	want := ctrl.State()
	if err := ctrl.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other := sim.NewController(nil, NewGateway(store, nil), nil)
	if err := other.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(other.State(), want) {
		t.Errorf("Expected %+v, got %+v", want, other.State())
	}
}

// A corrupt slot must fail the load and leave the running game alone.
func TestLoadCorruptKeepsState(t *testing.T) {
	kv := storage.NewMemory()
	ctrl := sim.NewController(nil, NewGateway(kv, nil), nil)
	ctx := context.Background()

	ctrl.Step(4)
	if err := ctrl.StartActivity("computer"); err != nil {
		t.Fatalf("StartActivity failed: %v", err)
	}
	before := ctrl.State()

	kv.Put(ctx, SlotKey, []byte("{{{not json"))

	err := ctrl.Load(ctx)
	if !errors.Is(err, sim.ErrCorruptSave) {
		t.Fatalf("Expected ErrCorruptSave, got %v", err)
	}
	if !reflect.DeepEqual(ctrl.State(), before) {
		t.Errorf("State changed after corrupt load:\n got  %+v\n want %+v", ctrl.State(), before)
	}
}

func TestSaveRejectsUnknownActivity(t *testing.T) {
	g := NewGateway(storage.NewMemory(), nil)
	s := sim.NewState()
	s.Active = &sim.ActiveAction{ActivityID: "juggle", MinutesRemaining: 5}

	if err := g.Save(context.Background(), s); err == nil {
		t.Error("Expected save of unknown activity to fail")
	}
	if ok, _ := g.Exists(context.Background()); ok {
		t.Error("Failed save must not write the slot")
	}
}

type recordingSlot struct {
	mu    sync.Mutex
	saved []sim.State
	gate  chan struct{}
}

func (r *recordingSlot) Save(_ context.Context, s sim.State) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.saved = append(r.saved, s)
	r.mu.Unlock()
	return nil
}

func (r *recordingSlot) Load(context.Context) (sim.State, error) {
	return sim.State{}, ErrNoSave
}

func (r *recordingSlot) days() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, s := range r.saved {
		out = append(out, s.Day)
	}
	return out
}

func TestAutosaverKeepsLatest(t *testing.T) {
	slot := &recordingSlot{}
	a := NewAutosaver(slot, nil)

	// Nothing is running yet, so each offer replaces the previous one.
	for day := 1; day <= 5; day++ {
		s := sim.NewState()
		s.Day = day
		a.Offer(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// Run either wrote the pending snapshot or flushed it on the way out.
	got := slot.days()
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("Expected only day 5 saved, got %v", got)
	}
}

func TestAutosaverWrites(t *testing.T) {
	slot := &recordingSlot{}
	a := NewAutosaver(slot, nil)
	saved := make(chan struct{}, 1)
	a.OnSaved = func(sim.State, error) { saved <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	s := sim.NewState()
	s.Day = 9
	a.Offer(s)

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("Autosaver did not write within 2s")
	}
	cancel()
	<-done

	if got := slot.days(); len(got) != 1 || got[0] != 9 {
		t.Errorf("Expected day 9 saved once, got %v", got)
	}
}

func TestAutosaverOfferNeverBlocks(t *testing.T) {
	slot := &recordingSlot{gate: make(chan struct{})}
	a := NewAutosaver(slot, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			a.Offer(sim.NewState())
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Offer blocked behind a slow save")
	}

	close(slot.gate)
	cancel()
	<-done
}
