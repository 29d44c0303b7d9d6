package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) (*BoltStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	return store, path
}

func TestSession_SaveClear(t *testing.T) {
	s, err := New(NewMemoryStore())
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.ErrorIs(t, s.Require(), ErrNotAuthenticated)

	data := Data{Token: "tok", UserID: 3, Username: "agente", Nome: "Agente", IsAdmin: true}
	require.NoError(t, s.Save(data))

	assert.True(t, s.IsAuthenticated())
	assert.NoError(t, s.Require())
	assert.Equal(t, "tok", s.Token())
	assert.Equal(t, data, s.Current())

	require.NoError(t, s.Clear())
	assert.Equal(t, Data{}, s.Current())
	assert.Empty(t, s.Token())
}

func TestBoltStore_PersistsAcrossOpen(t *testing.T) {
	store, path := openTestStore(t)

	s, err := New(store)
	require.NoError(t, err)
	data := Data{Token: "abc.def", UserID: 42, Username: "maria", Nome: "Maria Silva", IsAdmin: false}
	require.NoError(t, s.Save(data))
	require.NoError(t, store.Close())

	reopened, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	s2, err := New(reopened)
	require.NoError(t, err)
	assert.Equal(t, data, s2.Current())
}

func TestBoltStore_ClearRemovesEveryKey(t *testing.T) {
	store, _ := openTestStore(t)
	defer store.Close()

	require.NoError(t, store.Save(Data{Token: "t", UserID: 1, Username: "u", Nome: "n", IsAdmin: true}))
	require.NoError(t, store.Clear())

	err := store.db.View(func(tx *bbolt.Tx) error {
		n := 0
		require.NoError(t, tx.Bucket(bucketSession).ForEach(func(k, v []byte) error {
			n++
			return nil
		}))
		assert.Zero(t, n, "bucket should be empty after logout")
		return nil
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Data{}, loaded)
}

func TestBoltStore_EmptyFileLoadsLoggedOut(t *testing.T) {
	store, _ := openTestStore(t)
	defer store.Close()

	s, err := New(store)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
}
