package session_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
	"github.com/mauriantolin/tu-carrera/internal/platform/cache/cachetest"
	"github.com/mauriantolin/tu-carrera/internal/platform/database/dbtest"
	"github.com/mauriantolin/tu-carrera/internal/session"
)

// testStore exercises the Store contract shared by every backend.
func testStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()
	key := session.Key{StudentID: "s1", CurriculumID: "isi"}
	other := session.Key{StudentID: "s2", CurriculumID: "isi"}

	set, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("Load() on empty store = %v, want empty", set.Strings())
	}

	want := curriculum.NewCompletionSet("a", "b", "c")
	if err := store.Save(ctx, key, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Load() = %v, want %v", got.Strings(), want.Strings())
	}

	// Save replaces rather than merges.
	if err := store.Save(ctx, key, curriculum.NewCompletionSet("a")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _ = store.Load(ctx, key)
	if !reflect.DeepEqual(got.Strings(), []string{"a"}) {
		t.Errorf("Load() after replace = %v, want [a]", got.Strings())
	}

	// Saving an empty set clears it.
	if err := store.Save(ctx, other, curriculum.NewCompletionSet("x")); err != nil {
		t.Fatalf("Save(other) error = %v", err)
	}
	if err := store.Save(ctx, other, curriculum.NewCompletionSet()); err != nil {
		t.Fatalf("Save(other, empty) error = %v", err)
	}
	if got, _ := store.Load(ctx, other); got.Len() != 0 {
		t.Errorf("Load(other) = %v, want empty", got.Strings())
	}

	if err := store.Reset(ctx, key); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got, _ := store.Load(ctx, key); got.Len() != 0 {
		t.Errorf("Load() after Reset = %v, want empty", got.Strings())
	}

	if _, err := store.Load(ctx, session.Key{StudentID: "s1"}); !errors.Is(err, planner.ErrMissingContext) {
		t.Errorf("Load() without curriculum error = %v, want ErrMissingContext", err)
	}
	if err := store.Save(ctx, session.Key{CurriculumID: "isi"}, want); !errors.Is(err, session.ErrMissingStudent) {
		t.Errorf("Save() without student error = %v, want ErrMissingStudent", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, session.NewMemoryStore())
}

func TestPostgresStore(t *testing.T) {
	db := dbtest.New(t, session.PostgresSchema)

	store, err := session.NewPostgresStore(db.Pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	testStore(t, store)
}

func TestRedisStore(t *testing.T) {
	c := cachetest.New(t)

	store, err := session.NewRedisStore(c.Client)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	testStore(t, store)
}

func TestNewStores_NilClient(t *testing.T) {
	if _, err := session.NewPostgresStore(nil); err == nil {
		t.Error("NewPostgresStore(nil) should fail")
	}
	if _, err := session.NewRedisStore(nil); err == nil {
		t.Error("NewRedisStore(nil) should fail")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		key  session.Key
		want error
	}{
		{"valid", session.Key{StudentID: "s1", CurriculumID: "isi"}, nil},
		{"no curriculum", session.Key{StudentID: "s1"}, planner.ErrMissingContext},
		{"no student", session.Key{CurriculumID: "isi"}, session.ErrMissingStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.key.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	if got := (session.Key{StudentID: "s1", CurriculumID: "isi"}).String(); got != "isi/s1" {
		t.Errorf("String() = %q, want isi/s1", got)
	}
}
