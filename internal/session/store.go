// Package session keeps the bot's per-chat creative draft and a bounded log of
// what was generated for it.
package session

import (
	"sync"
	"time"

	"pro-banana-creatives/internal/creative"
	"pro-banana-creatives/internal/llm"
)

const DefaultFormat = creative.FormatStickyNoteRealism

// Draft is what the next /creative, /carousel or /copy call is built from.
type Draft struct {
	Format       creative.Format
	EmbeddedText string
	VisualScene  string
	VisualStyle  string
	AspectRatio  string

	Reference      *llm.InlineImage
	ReferenceGroup string

	UpdatedAt time.Time
}

type HistoryEntry struct {
	Kind   string
	Format creative.Format
	Prompt string
	Images int
	At     time.Time
}

type Session struct {
	ChatID       int64
	UserID       int64
	Username     string
	Draft        Draft
	History      []HistoryEntry
	busy         bool
	LastActivity time.Time
}

type Options struct {
	MaxMessages int
}

type Store struct {
	mu         sync.Mutex
	sessions   map[key]*Session
	maxHistory int
}

type key struct {
	ChatID int64
	UserID int64
}

func NewStore(opts Options) *Store {
	maxHistory := opts.MaxMessages
	if maxHistory <= 0 {
		maxHistory = 20
	}

	return &Store{
		sessions:   make(map[key]*Session),
		maxHistory: maxHistory,
	}
}

func defaultDraft() Draft {
	return Draft{
		Format:      DefaultFormat,
		AspectRatio: llm.AspectSquare,
		UpdatedAt:   time.Now(),
	}
}

// Draft returns a copy of the current draft.
func (s *Store) Draft(chatID, userID int64, username string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, userID, username)
	sess.LastActivity = time.Now()
	return sess.Draft
}

func (s *Store) Update(chatID, userID int64, fn func(*Draft)) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, userID, "")
	if fn != nil {
		fn(&sess.Draft)
	}
	sess.Draft.UpdatedAt = time.Now()
	sess.LastActivity = sess.Draft.UpdatedAt
	return sess.Draft
}

// Reset clears the draft and the history.
func (s *Store) Reset(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key{ChatID: chatID, UserID: userID}]; ok {
		sess.Draft = defaultDraft()
		sess.History = nil
		sess.LastActivity = time.Now()
	}
}

func (s *Store) History(chatID, userID int64) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key{ChatID: chatID, UserID: userID}]
	if !ok {
		return nil
	}
	history := make([]HistoryEntry, len(sess.History))
	copy(history, sess.History)
	return history
}

func (s *Store) Append(chatID, userID int64, entries ...HistoryEntry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, userID, "")
	sess.LastActivity = time.Now()

	for i := range entries {
		if entries[i].At.IsZero() {
			entries[i].At = sess.LastActivity
		}
	}
	sess.History = append(sess.History, entries...)
	if len(sess.History) > s.maxHistory {
		sess.History = sess.History[len(sess.History)-s.maxHistory:]
	}
}

// TryAcquire marks the chat as busy. It reports false when a generation is
// already running for it.
func (s *Store) TryAcquire(chatID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, userID, "")
	if sess.busy {
		return false
	}
	sess.busy = true
	return true
}

func (s *Store) Release(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key{ChatID: chatID, UserID: userID}]; ok {
		sess.busy = false
	}
}

func (s *Store) getOrCreateLocked(chatID, userID int64, username string) *Session {
	k := key{ChatID: chatID, UserID: userID}
	if sess, ok := s.sessions[k]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		ChatID:       chatID,
		UserID:       userID,
		Username:     username,
		Draft:        defaultDraft(),
		LastActivity: time.Now(),
	}
	s.sessions[k] = sess
	return sess
}
