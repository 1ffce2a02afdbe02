package service

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("user-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, k.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := k.Lock("b")
		unlock()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, k.size())
	unlockA()
	assert.Zero(t, k.size())
}

func TestSameJSON(t *testing.T) {
	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"b":[1,2],"a":{"x":true}}`), &fields))

	assert.True(t, sameJSON(json.RawMessage(`{"a": {"x": true}, "b": [1, 2]}`), fields))
	assert.False(t, sameJSON(json.RawMessage(`{"a": {"x": false}, "b": [1, 2]}`), fields))
	assert.False(t, sameJSON(json.RawMessage(`not json`), fields))
}

func TestParseNewsItems(t *testing.T) {
	items, err := parseNewsItems("Réponse:\n[{\"title\":\"A\"},{\"title\":\"  \"}]\nFin")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = parseNewsItems("aucune donnée")
	assert.Error(t, err)
}
