package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/remfix/repairbot/internal/domain/catalog"
	"github.com/remfix/repairbot/internal/domain/orders"
	"github.com/remfix/repairbot/internal/domain/settings"
	"github.com/remfix/repairbot/internal/session"
)

// fakeAPI записывает всё отправленное ботом вместо похода в Telegram.
type fakeAPI struct {
	msgs   []tgbotapi.MessageConfig
	edits  []tgbotapi.EditMessageTextConfig
	nextID int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.nextID++
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.msgs = append(f.msgs, v)
	case tgbotapi.EditMessageTextConfig:
		f.edits = append(f.edits, v)
	}
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return nil }

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	if len(f.msgs) == 0 {
		t.Fatal("bot sent nothing")
	}
	return f.msgs[len(f.msgs)-1].Text
}

func (f *fakeAPI) hasText(sub string) bool {
	for _, m := range f.msgs {
		if strings.Contains(m.Text, sub) {
			return true
		}
	}
	return false
}

func (f *fakeAPI) textsFor(chatID int64) []string {
	var out []string
	for _, m := range f.msgs {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

// fakeBackend — каталог и заявки в памяти: и Loader для кэша, и хранилище
// для мутаций, поэтому Refresh после записи видит свежие данные.
type fakeBackend struct {
	types   []catalog.DeviceType
	devices []catalog.Device
	repairs []catalog.RepairItem
	created []orders.Order
}

func (f *fakeBackend) LoadAll(context.Context) ([]catalog.DeviceType, []catalog.Device, []catalog.RepairItem, error) {
	return f.types, f.devices, f.repairs, nil
}

func (f *fakeBackend) find(deviceID int64, title string) *catalog.RepairItem {
	for i := range f.repairs {
		if f.repairs[i].DeviceID == deviceID && f.repairs[i].Title == title {
			return &f.repairs[i]
		}
	}
	return nil
}

func (f *fakeBackend) UpdatePrice(_ context.Context, deviceID int64, title string, price int) error {
	if it := f.find(deviceID, title); it != nil {
		it.Price = price
	}
	return nil
}

func (f *fakeBackend) UpdateDescription(_ context.Context, deviceID int64, title, description string) error {
	if it := f.find(deviceID, title); it != nil {
		it.Description = description
	}
	return nil
}

func (f *fakeBackend) UpdateWarranty(_ context.Context, deviceID int64, title string, warranty *string) error {
	if it := f.find(deviceID, title); it != nil {
		it.Warranty = warranty
	}
	return nil
}

func (f *fakeBackend) UpdateWorkTime(_ context.Context, deviceID int64, title string, workTime *string) error {
	if it := f.find(deviceID, title); it != nil {
		it.WorkTime = workTime
	}
	return nil
}

func (f *fakeBackend) InsertRepair(_ context.Context, it catalog.RepairItem) error {
	f.repairs = append(f.repairs, it)
	return nil
}

func (f *fakeBackend) DeleteRepair(_ context.Context, deviceID int64, title string) error {
	f.repairs = slices.DeleteFunc(f.repairs, func(it catalog.RepairItem) bool {
		return it.DeviceID == deviceID && it.Title == title
	})
	return nil
}

func (f *fakeBackend) InsertDeviceType(_ context.Context, name string, sortOrder int) (bool, error) {
	for _, t := range f.types {
		if t.Name == name {
			return false, nil
		}
	}
	f.types = append(f.types, catalog.DeviceType{ID: int64(len(f.types) + 1), Name: name, SortOrder: sortOrder})
	return true, nil
}

func (f *fakeBackend) InsertDevice(_ context.Context, name string, typeID int64) (bool, error) {
	for _, d := range f.devices {
		if d.Name == name {
			return false, nil
		}
	}
	f.devices = append(f.devices, catalog.Device{ID: int64(100 + len(f.devices)), Name: name, TypeID: typeID})
	return true, nil
}

func (f *fakeBackend) Create(_ context.Context, o orders.Order) (*orders.Order, error) {
	o.ID = int64(len(f.created) + 1)
	o.CreatedAt = time.Now()
	f.created = append(f.created, o)
	return &o, nil
}

func (f *fakeBackend) List(_ context.Context, limit int) ([]orders.Order, error) {
	out := slices.Clone(f.created)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id int64, status orders.Status) error {
	for i := range f.created {
		if f.created[i].ID == id {
			f.created[i].Status = status
		}
	}
	return nil
}

type chatStoreStub struct{}

func (chatStoreStub) ListChats(context.Context) ([]int64, error)   { return nil, nil }
func (chatStoreStub) InsertChat(context.Context, int64) error      { return nil }
func (chatStoreStub) DeleteChat(context.Context, int64) error      { return nil }

// newWiredBot собирает бота на фейковом транспорте и фейковом хранилище.
func newWiredBot(t *testing.T, be *fakeBackend, adminIDs []int64) (*Bot, *fakeAPI) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := catalog.NewCache(be, log)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	svc := settings.NewService(chatStoreStub{}, log)
	svc.Load(context.Background(), adminIDs)
	api := &fakeAPI{}
	return New(api, log, cache, be, be, svc, session.NewStore(), adminIDs), api
}

func catalogFixture() *fakeBackend {
	return &fakeBackend{
		types:   []catalog.DeviceType{{ID: 1, Name: "iPhone", SortOrder: 1}},
		devices: []catalog.Device{{ID: 10, Name: "iPhone 14", TypeID: 1}},
		repairs: []catalog.RepairItem{
			{DeviceID: 10, Title: "Замена экрана", Price: 12500, Description: "Оригинальный дисплей"},
		},
	}
}

func privMsg(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: "private"},
		From: &tgbotapi.User{ID: chatID},
		Text: text,
	}
}

func cbq(chatID int64, msgID int, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      fmt.Sprintf("cb-%s", data),
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: msgID, Chat: &tgbotapi.Chat{ID: chatID, Type: "private"}},
		Data:    data,
	}
}
