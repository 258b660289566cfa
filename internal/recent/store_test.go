package recent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"countrycard/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyKV wraps a memory store and fails the operations it is told to.
type flakyKV struct {
	*kv.Memory
	failGet, failSet, failRemove bool
}

var errDisabled = errors.New("storage disabled")

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errDisabled
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errDisabled
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyKV) Remove(ctx context.Context, key string) error {
	if f.failRemove {
		return errDisabled
	}
	return f.Memory.Remove(ctx, key)
}

func record(t *testing.T, s *Store, names ...string) List {
	t.Helper()
	var out List
	for _, n := range names {
		var err error
		out, err = s.RecordSearch(context.Background(), n)
		require.NoError(t, err)
	}
	return out
}

func TestRecordSearch_Idempotent(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "France", "France")
	assert.Equal(t, List{"France"}, got)
}

func TestRecordSearch_CaseInsensitiveKeepsLatestCasing(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "France", "france")
	assert.Equal(t, List{"france"}, got)
}

func TestRecordSearch_BoundedLength(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "A", "B", "C", "D", "E", "F")
	assert.Equal(t, List{"F", "E", "D", "C", "B"}, got)
}

func TestRecordSearch_MovesExistingToFront(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "Peru", "Chile", "Peru")
	assert.Equal(t, List{"Peru", "Chile"}, got)
}

func TestRecordSearch_BlankNameIgnored(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "Peru", "   ")
	assert.Equal(t, List{"Peru"}, got)
}

func TestRecordSearch_Persists(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	record(t, NewStore(mem, "", nil), "Peru", "Chile")

	raw, ok, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Chile","Peru"]`, raw)

	assert.Equal(t, List{"Chile", "Peru"}, NewStore(mem, "", nil).Load(ctx))
}

func TestRecordSearch_ReturnedListIsACopy(t *testing.T) {
	s := NewStore(kv.NewMemory(), "", nil)
	got := record(t, s, "Peru")
	got[0] = "Mutated"
	assert.Equal(t, List{"Peru"}, s.Load(context.Background()))
}

func TestLoad_AbsentIsEmpty(t *testing.T) {
	got := NewStore(kv.NewMemory(), "", nil).Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_CorruptValueIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{not json`, `{"a":1}`, `"France"`, `[1,2]`} {
		t.Run(raw, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set(ctx, DefaultKey, raw))

			s := NewStore(mem, "", nil)
			assert.Empty(t, s.Load(ctx))

			// the store recovers on the next write
			got, err := s.RecordSearch(ctx, "Chile")
			require.NoError(t, err)
			assert.Equal(t, List{"Chile"}, got)
		})
	}
}

func TestLoad_ReadFailureIsEmpty(t *testing.T) {
	s := NewStore(&flakyKV{Memory: kv.NewMemory(), failGet: true}, "", nil)
	assert.Empty(t, s.Load(context.Background()))
}

func TestRecordSearch_ReadFailureKeepsStoredHistory(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory(), failGet: true}
	require.NoError(t, backend.Memory.Set(ctx, DefaultKey, `["Peru","Chile","Japan"]`))

	s := NewStore(backend, "", nil)
	assert.Empty(t, s.Load(ctx))

	got, err := s.RecordSearch(ctx, "France")
	assert.Equal(t, List{"France"}, got)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "read", se.Op)
	assert.ErrorIs(t, err, errDisabled)

	raw, ok, err := backend.Memory.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Peru","Chile","Japan"]`, raw)
}

func TestRecordSearch_MergesAfterReadRecovers(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory(), failGet: true}
	require.NoError(t, backend.Memory.Set(ctx, DefaultKey, `["Peru","Chile","Japan"]`))

	s := NewStore(backend, "", nil)
	assert.Empty(t, s.Load(ctx))

	backend.failGet = false
	got, err := s.RecordSearch(ctx, "France")
	require.NoError(t, err)
	assert.Equal(t, List{"France", "Peru", "Chile", "Japan"}, got)

	raw, _, err := backend.Memory.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["France","Peru","Chile","Japan"]`, raw)
}

func TestRecordSearch_SessionEntriesWinOverStoredOnRecovery(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory(), failGet: true}
	require.NoError(t, backend.Memory.Set(ctx, DefaultKey, `["Peru","Chile","Japan","Spain","Italy"]`))

	s := NewStore(backend, "", nil)
	_, err := s.RecordSearch(ctx, "japan")
	require.Error(t, err)

	backend.failGet = false
	got, err := s.RecordSearch(ctx, "France")
	require.NoError(t, err)
	assert.Equal(t, List{"France", "japan", "Peru", "Chile", "Spain"}, got)
}

func TestClear_AfterReadFailureWrites(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory(), failGet: true}
	require.NoError(t, backend.Memory.Set(ctx, DefaultKey, `["Peru"]`))

	s := NewStore(backend, "", nil)
	require.NoError(t, s.Clear(ctx))

	got, err := s.RecordSearch(ctx, "Chile")
	require.NoError(t, err)
	assert.Equal(t, List{"Chile"}, got)

	raw, _, err := backend.Memory.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["Chile"]`, raw)
}

func TestLoad_NormalizesForeignValue(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, DefaultKey, `["Peru"," ","peru","Chile","A","B","C","D"]`))

	got := NewStore(mem, "", nil).Load(ctx)
	assert.Equal(t, List{"Peru", "Chile", "A", "B", "C"}, got)
}

func TestRecordSearch_WriteFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory(), failSet: true}
	s := NewStore(backend, "", nil)

	got, err := s.RecordSearch(ctx, "France")
	assert.Equal(t, List{"France"}, got)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Op)
	assert.ErrorIs(t, err, errDisabled)

	// session-only behaviour: memory keeps the list
	got, _ = s.RecordSearch(ctx, "Peru")
	assert.Equal(t, List{"Peru", "France"}, got)
	assert.Equal(t, List{"Peru", "France"}, s.Load(ctx))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStore(mem, "", nil)
	record(t, s, "Peru", "Chile")

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Load(ctx))

	_, ok, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, NewStore(mem, "", nil).Load(ctx))
}

func TestClear_FailureStillEmptiesMemory(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{Memory: kv.NewMemory()}
	s := NewStore(backend, "", nil)
	record(t, s, "Peru")

	backend.failRemove = true
	err := s.Clear(ctx)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "remove", se.Op)
	assert.Empty(t, s.Load(ctx))
}

func TestAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", nil)
	record(t, s, "Peru", "Chile")

	name, ok := s.At(ctx, 0)
	assert.True(t, ok)
	assert.Equal(t, "Chile", name)

	_, ok = s.At(ctx, 2)
	assert.False(t, ok)
	_, ok = s.At(ctx, -1)
	assert.False(t, ok)
}

func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	record(t, NewStore(mem, "other", nil), "Peru")

	_, ok, _ := mem.Get(ctx, DefaultKey)
	assert.False(t, ok)
	_, ok, _ = mem.Get(ctx, "other")
	assert.True(t, ok)
}

func TestRecordSearch_ConcurrentStaysBoundedAndUnique(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	s := NewStore(kv.NewFile(path), "", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Country%d", i%7)
			if i%2 == 0 {
				name = fmt.Sprintf("COUNTRY%d", i%7)
			}
			_, _ = s.RecordSearch(ctx, name)
		}(i)
	}
	wg.Wait()

	got := s.Load(ctx)
	assert.Len(t, got, MaxEntries)
	assert.Equal(t, got, normalize(got, MaxEntries), "no case-insensitive duplicates")
	assert.Equal(t, got, NewStore(kv.NewFile(path), "", nil).Load(ctx))
}

func TestPush(t *testing.T) {
	tests := []struct {
		name string
		in   List
		add  string
		want List
	}{
		{"empty", nil, "Peru", List{"Peru"}},
		{"new front", List{"Chile"}, "Peru", List{"Peru", "Chile"}},
		{"dedup middle", List{"A", "peru", "B"}, "Peru", List{"Peru", "A", "B"}},
		{"evict oldest", List{"A", "B", "C", "D", "E"}, "F", List{"F", "A", "B", "C", "D"}},
		{"dedup full", List{"A", "B", "C", "D", "E"}, "c", List{"c", "A", "B", "D", "E"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, push(tt.in, tt.add, MaxEntries))
		})
	}
}
