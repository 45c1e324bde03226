package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

var errDisk = errors.New("disk on fire")

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDisk }
func (brokenStore) Put(context.Context, string, []byte) error         { return errDisk }
func (brokenStore) Close() error                                      { return nil }

func TestLoadAbsentIsLevelZero(t *testing.T) {
	p, err := Load(context.Background(), NewMemoryStore(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, Progress{}, p)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, Save(ctx, s, DefaultKey, Progress{LevelIndex: 3}))
	raw, ok, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"levelIndex":3}`, string(raw))

	p, err := Load(ctx, s, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 3, p.LevelIndex)
}

func TestLoadFallbacks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		stored  string
		want    int
		wantErr error
	}{
		{"empty object", `{}`, 0, nil},
		{"extra fields", `{"levelIndex":2,"other":true}`, 2, nil},
		{"negative clamps", `{"levelIndex":-4}`, 0, nil},
		{"garbage", `not json`, 0, ErrInvalidSave},
		{"wrong type", `{"levelIndex":"two"}`, 0, ErrInvalidSave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			require.NoError(t, s.Put(ctx, DefaultKey, []byte(tt.stored)))
			p, err := Load(ctx, s, DefaultKey)
			assert.Equal(t, tt.want, p.LevelIndex)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestStorageUnavailable(t *testing.T) {
	ctx := context.Background()

	p, err := Load(ctx, brokenStore{}, DefaultKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 0, p.LevelIndex)

	err = Save(ctx, brokenStore{}, DefaultKey, Progress{LevelIndex: 1})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = Export(ctx, brokenStore{}, DefaultKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	require.NoError(t, Save(ctx, src, DefaultKey, Progress{LevelIndex: 4}))

	data, err := Export(ctx, src, DefaultKey)
	require.NoError(t, err)

	dst := NewMemoryStore()
	require.NoError(t, Import(ctx, dst, DefaultKey, data))

	p, err := Load(ctx, dst, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 4, p.LevelIndex)
}

func TestExportAbsentIsEmptyObject(t *testing.T) {
	ctx := context.Background()
	data, err := Export(ctx, NewMemoryStore(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	dst := NewMemoryStore()
	require.NoError(t, Import(ctx, dst, DefaultKey, data))
	p, err := Load(ctx, dst, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 0, p.LevelIndex)
}

func TestImportRejectsInvalid(t *testing.T) {
	bad := []string{
		`[]`,
		`{"levelIndex": -1}`,
		`{"levelIndex": 1.5}`,
		`{"levelIndex": "3"}`,
		`{"levelIndex": 1} {}`,
		``,
	}
	for _, b := range bad {
		s := NewMemoryStore()
		err := Import(context.Background(), s, DefaultKey, []byte(b))
		assert.ErrorIs(t, err, ErrInvalidSave, "input %q", b)
		_, ok, _ := s.Get(context.Background(), DefaultKey)
		assert.False(t, ok, "input %q must not be stored", b)
	}
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "bq-progress", KeyFor(""))
	assert.Equal(t, "bq-progress/alice", KeyFor("alice"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("floppy", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}
