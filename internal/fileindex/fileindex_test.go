package fileindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFullReplacesPeerFiles(t *testing.T) {
	ix := New()
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"a.txt", "b.txt"})

	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, listNames(ix))

	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"b.txt"})
	assert.ElementsMatch(t, []string{"b.txt"}, listNames(ix))
}

func TestRegisterIncrementalNeverDeletes(t *testing.T) {
	ix := New()
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"a.txt", "b.txt"})
	ix.RegisterIncremental("p1", "10.0.0.1:9001", []string{"c.txt"})

	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, listNames(ix))

	// A later full registration is what finally drops a.txt and b.txt.
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"c.txt"})
	assert.ElementsMatch(t, []string{"c.txt"}, listNames(ix))
}

func TestQueryReturnsAllHolders(t *testing.T) {
	ix := New()
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"shared.bin"})
	ix.RegisterFull("p2", "10.0.0.2:9001", []string{"shared.bin"})

	holders := ix.Query("shared.bin")
	require.Len(t, holders, 2)
	assert.Equal(t, "p1", holders[0].PeerID)
	assert.Equal(t, "p2", holders[1].PeerID)
}

func TestRemovePeerDropsAllItsFiles(t *testing.T) {
	ix := New()
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"a.txt"})
	ix.RegisterFull("p2", "10.0.0.2:9001", []string{"a.txt"})

	ix.RemovePeer("p1")

	holders := ix.Query("a.txt")
	require.Len(t, holders, 1)
	assert.Equal(t, "p2", holders[0].PeerID)
}

func TestResetClearsEverything(t *testing.T) {
	ix := New()
	ix.RegisterFull("p1", "10.0.0.1:9001", []string{"a.txt"})
	ix.Reset()
	assert.Empty(t, ix.List())
}

func listNames(ix *Index) []string {
	var names []string
	for name := range ix.List() {
		names = append(names, name)
	}
	return names
}
