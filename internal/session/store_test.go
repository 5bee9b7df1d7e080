package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

func TestDraftDefaultsAndUpdate(t *testing.T) {
	store := NewStore(Options{})

	d := store.Draft(1, 2, "sari")
	assert.Equal(t, DefaultFormat, d.Format)
	assert.Equal(t, llm.AspectSquare, d.AspectRatio)
	assert.Nil(t, d.Reference)

	updated := store.Update(1, 2, func(d *Draft) {
		d.Format = creative.FormatMeme
		d.EmbeddedText = "STOP SCROLLING"
	})
	assert.Equal(t, creative.FormatMeme, updated.Format)
	assert.Equal(t, "STOP SCROLLING", store.Draft(1, 2, "").EmbeddedText)

	// other chats are untouched
	assert.Equal(t, DefaultFormat, store.Draft(1, 3, "").Format)
	assert.Equal(t, DefaultFormat, store.Draft(9, 2, "").Format)
}

func TestHistoryIsBounded(t *testing.T) {
	store := NewStore(Options{MaxMessages: 2})
	store.Append(1, 1, HistoryEntry{Kind: "creative", Prompt: "a"})
	store.Append(1, 1, HistoryEntry{Kind: "creative", Prompt: "b"}, HistoryEntry{Kind: "carousel", Prompt: "c"})

	history := store.History(1, 1)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].Prompt)
	assert.Equal(t, "c", history[1].Prompt)
	assert.False(t, history[0].At.IsZero())

	history[0].Prompt = "mutated"
	assert.Equal(t, "b", store.History(1, 1)[0].Prompt)
	assert.Nil(t, store.History(5, 5))
}

func TestResetClearsDraftAndHistory(t *testing.T) {
	store := NewStore(Options{})
	store.Update(1, 1, func(d *Draft) {
		d.Format = creative.FormatBillboard
		d.Reference = &llm.InlineImage{Data: []byte("x")}
	})
	store.Append(1, 1, HistoryEntry{Kind: "copy"})

	store.Reset(1, 1)
	d := store.Draft(1, 1, "")
	assert.Equal(t, DefaultFormat, d.Format)
	assert.Nil(t, d.Reference)
	assert.Empty(t, store.History(1, 1))
}

func TestTryAcquireIsExclusive(t *testing.T) {
	store := NewStore(Options{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.TryAcquire(7, 7) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	store.Release(7, 7)
	assert.True(t, store.TryAcquire(7, 7))
}
