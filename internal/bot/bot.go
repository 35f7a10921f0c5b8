package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/remfix/repairbot/internal/domain/catalog"
	"github.com/remfix/repairbot/internal/domain/orders"
	"github.com/remfix/repairbot/internal/domain/settings"
	"github.com/remfix/repairbot/internal/infra/metrics"
	"github.com/remfix/repairbot/internal/session"
)

// tgClient — используемая ботом часть клиента Telegram.
type tgClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// catalogStore — мутации каталога. В проде это *catalog.Repo.
type catalogStore interface {
	UpdatePrice(ctx context.Context, deviceID int64, title string, price int) error
	UpdateDescription(ctx context.Context, deviceID int64, title, description string) error
	UpdateWarranty(ctx context.Context, deviceID int64, title string, warranty *string) error
	UpdateWorkTime(ctx context.Context, deviceID int64, title string, workTime *string) error
	InsertRepair(ctx context.Context, it catalog.RepairItem) error
	DeleteRepair(ctx context.Context, deviceID int64, title string) error
	InsertDeviceType(ctx context.Context, name string, sortOrder int) (bool, error)
	InsertDevice(ctx context.Context, name string, typeID int64) (bool, error)
}

// orderStore — хранилище заявок. В проде это *orders.Repo.
type orderStore interface {
	Create(ctx context.Context, o orders.Order) (*orders.Order, error)
	List(ctx context.Context, limit int) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id int64, status orders.Status) error
}

type Bot struct {
	api      tgClient
	log      *slog.Logger
	catalog  *catalog.Cache
	store    catalogStore
	orders   orderStore
	settings *settings.Service
	sessions *session.Store

	adminIDs map[int64]struct{}

	// Админ-режим включается командой и живёт до выключения или рестарта.
	adminMu   sync.Mutex
	adminMode map[int64]struct{}
}

func New(api tgClient, log *slog.Logger,
	cache *catalog.Cache, store catalogStore,
	ordersRepo orderStore, settingsSvc *settings.Service,
	sessions *session.Store, adminIDs []int64) *Bot {

	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Bot{
		api: api, log: log,
		catalog: cache, store: store,
		orders: ordersRepo, settings: settingsSvc,
		sessions: sessions,
		adminIDs: admins, adminMode: map[int64]struct{}{},
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			metrics.UpdatesTotal.Inc()
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

/*** ADMIN GATE ***/

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.adminIDs[userID]
	return ok
}

// isAdminMode проверяется на каждом действии: админ, у которого режим выключен,
// видит бота как обычный клиент.
func (b *Bot) isAdminMode(userID int64) bool {
	if !b.isAdmin(userID) {
		return false
	}
	b.adminMu.Lock()
	defer b.adminMu.Unlock()
	_, ok := b.adminMode[userID]
	return ok
}

func (b *Bot) setAdminMode(userID int64, enabled bool) {
	b.adminMu.Lock()
	defer b.adminMu.Unlock()
	if enabled {
		b.adminMode[userID] = struct{}{}
	} else {
		delete(b.adminMode, userID)
	}
}

/*** TRANSPORT HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

// editOrSend пытается отредактировать сообщение на месте; любая ошибка
// редактирования гасится отправкой свежего сообщения с клавиатурой.
func (b *Bot) editOrSend(sess *session.Session, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(sess.ChatID, msgID, text, kb)
		if _, err := b.api.Send(edit); err == nil {
			sess.KeyboardMsgID = msgID
			return
		}
		b.log.Debug("edit failed, sending fresh message", "chat", sess.ChatID, "msg", msgID)
	}
	b.sendKeyboard(sess, text, kb)
}

// sendKeyboard удаляет прошлое сообщение с клавиатурой (чтобы в чате не
// копились устаревшие кнопки) и отправляет новое, запоминая его id.
func (b *Bot) sendKeyboard(sess *session.Session, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if sess.KeyboardMsgID != 0 {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(sess.ChatID, sess.KeyboardMsgID)); err != nil {
			b.log.Debug("delete old keyboard failed", "chat", sess.ChatID, "err", err)
		}
		sess.KeyboardMsgID = 0
	}
	m := tgbotapi.NewMessage(sess.ChatID, text)
	m.ReplyMarkup = kb
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send keyboard failed", "err", err)
		return
	}
	sess.KeyboardMsgID = sent.MessageID
}

// replaceDetail — то же самое для карточки работы (отдельное сообщение,
// живёт параллельно со списками).
func (b *Bot) replaceDetail(sess *session.Session, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if sess.DetailMsgID != 0 {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(sess.ChatID, sess.DetailMsgID)); err != nil {
			b.log.Debug("delete old detail failed", "chat", sess.ChatID, "err", err)
		}
		sess.DetailMsgID = 0
	}
	m := tgbotapi.NewMessage(sess.ChatID, text)
	m.ReplyMarkup = kb
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send detail failed", "err", err)
		return
	}
	sess.DetailMsgID = sent.MessageID
}
