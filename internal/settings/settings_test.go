package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return st
}

func TestPutGet(t *testing.T) {
	st := openTestStore(t)

	_, ok, err := st.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.Put("greeting", []byte("hello")))

	value, ok, err := st.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), value)
}

func TestPutOverwrites(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Put("key", []byte("one")))
	require.NoError(t, st.Put("key", []byte("two")))

	value, ok, err := st.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("two"), value)
}

func TestDelete(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.Put("key", []byte("value")))
	require.NoError(t, st.Delete("key"))

	_, ok, err := st.Get("key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Put("key", []byte("survives")))

	st2, err := Open(dbPath)
	require.NoError(t, err)

	value, ok, err := st2.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("survives"), value)
}
