package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Len(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	assert.Equal(t, 0, st.Len())

	_, err := st.Save("doc-1", []byte("a"))
	require.NoError(t, err)
	_, err = st.Save("doc-1", []byte("b"))
	require.NoError(t, err)
	_, err = st.Save("doc-2", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 3, st.Len())

	require.NoError(t, st.DeleteRevision("doc-1", 1))
	assert.Equal(t, 2, st.Len())

	require.NoError(t, st.Delete("doc-1"))
	assert.Equal(t, 1, st.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	const numGoroutines = 100
	const numOps = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			docID := fmt.Sprintf("doc-%d", id%10)
			for j := 0; j < numOps; j++ {
				switch j % 5 {
				case 0, 1:
					_, _ = st.Save(docID, []byte("data"))
				case 2:
					_, _, _ = st.Load(docID)
				case 3:
					_, _ = st.List(docID)
				case 4:
					_ = st.Prune(docID, 3)
				}
			}
		}(i)
	}

	wg.Wait()
}

func TestMemoryStore_RevisionsMonotonicUnderConcurrency(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Save("doc", []byte("x"))
		}()
	}
	wg.Wait()

	infos, err := st.List("doc")
	require.NoError(t, err)
	require.Len(t, infos, 20)
	for i, info := range infos {
		assert.Equal(t, int64(i+1), info.Revision)
	}
}
