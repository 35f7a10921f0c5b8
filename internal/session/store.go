package session

import "sync"

// Store — реестр сессий по chatID. Обновления одного чата обрабатываются
// последовательно, поэтому мьютекс защищает только саму карту.
type Store struct {
	mu    sync.RWMutex
	items map[int64]*Session
}

func NewStore() *Store {
	return &Store{items: make(map[int64]*Session)}
}

// Get возвращает сессию чата, создавая пустую при первом обращении.
func (st *Store) Get(chatID int64) *Session {
	st.mu.RLock()
	s, ok := st.items[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok = st.items[chatID]; ok {
		return s
	}
	s = &Session{ChatID: chatID}
	st.items[chatID] = s
	return s
}

// Delete убирает сессию чата целиком.
func (st *Store) Delete(chatID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.items, chatID)
}

// Len — количество живых сессий.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.items)
}
