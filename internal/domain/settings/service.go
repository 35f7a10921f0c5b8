package settings

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// ChatStore — хранилище чатов-получателей. В проде это *Repo.
type ChatStore interface {
	ListChats(ctx context.Context) ([]int64, error)
	InsertChat(ctx context.Context, chatID int64) error
	DeleteChat(ctx context.Context, chatID int64) error
}

// Service держит список чатов для уведомлений о заявках в памяти.
// Админские чаты получают уведомления всегда, даже если таблица пуста.
type Service struct {
	store ChatStore
	log   *slog.Logger

	mu    sync.Mutex
	chats []int64
}

func NewService(store ChatStore, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Load подтягивает чаты из базы и добавляет к ним админские id.
// Ошибка чтения не фатальна: остаёмся на одних админских чатах.
func (s *Service) Load(ctx context.Context, adminIDs []int64) {
	ids, err := s.store.ListChats(ctx)
	if err != nil {
		s.log.Error("load notification chats failed", "err", err)
		ids = nil
	}
	for _, id := range adminIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	s.mu.Lock()
	s.chats = ids
	s.mu.Unlock()
	s.log.Info("notification chats loaded", "count", len(ids))
}

// ChatIDs — копия текущего списка получателей.
func (s *Service) ChatIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.chats)
}

func (s *Service) Add(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	known := slices.Contains(s.chats, chatID)
	s.mu.Unlock()
	if known {
		return nil
	}
	if err := s.store.InsertChat(ctx, chatID); err != nil {
		return err
	}
	s.mu.Lock()
	s.chats = append(s.chats, chatID)
	s.mu.Unlock()
	return nil
}

func (s *Service) Remove(ctx context.Context, chatID int64) error {
	if err := s.store.DeleteChat(ctx, chatID); err != nil {
		return err
	}
	s.mu.Lock()
	s.chats = slices.DeleteFunc(s.chats, func(id int64) bool { return id == chatID })
	s.mu.Unlock()
	return nil
}
