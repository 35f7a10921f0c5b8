package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/remfix/repairbot/internal/domain/orders"
	"github.com/remfix/repairbot/internal/infra/metrics"
	"github.com/remfix/repairbot/internal/session"
)

func (b *Bot) handleOrderName(sess *session.Session, text string) {
	if text == "" {
		b.reply(sess.ChatID, "Имя не может быть пустым. Как тебя зовут?")
		return
	}
	sess.Name = text
	sess.OrderStep = session.StepPhone
	b.reply(sess.ChatID, "Укажи номер телефона в любом формате: +7 (918) 123-45-67, 89181234567, +79181234567 и т.д.")
}

func (b *Bot) handleOrderPhone(ctx context.Context, sess *session.Session, text string) {
	chatID := sess.ChatID

	phone, ok := normalizePhone(text)
	if !ok {
		b.reply(chatID, "Номер телефона введён некорректно. Укажи номер в формате: +7 (918) 123-45-67, 89181234567 или +79181234567.")
		return
	}
	sess.Phone = phone

	// Сессия могла протухнуть между выбором работы и вводом телефона:
	// неполную заявку не отправляем.
	if sess.DeviceID == 0 || sess.Model == "" || sess.Issue == "" || sess.Price <= 0 || sess.Name == "" {
		sess.OrderStep = session.StepNone
		b.reply(chatID, "Сессия потерялась. Давай начнём сначала: /start")
		return
	}

	order, err := b.orders.Create(ctx, orders.Order{
		Name:     sess.Name,
		Phone:    sess.Phone,
		DeviceID: sess.DeviceID,
		Issue:    sess.Issue,
		Price:    sess.Price,
		Status:   orders.StatusPending,
	})
	if err != nil {
		b.log.Error("create order failed", "err", err)
		b.reply(chatID, "Не удалось создать заявку. Попробуй позже.")
		return
	}
	metrics.OrdersCreated.Inc()

	b.reply(chatID, fmt.Sprintf(
		"✅ Заявка оформлена!\n\n%s\n\nМы свяжемся с тобой в ближайшее время.",
		orderSummary(order.ID, order.Name, order.Phone, sess.Model, order.Issue, order.Price),
	))

	b.notifyOrder(order, sess.Model)

	// Заявка создана — поток завершён независимо от судьбы уведомлений.
	sess.OrderStep = session.StepNone
}

func statusLabel(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return "🆕 новая"
	case orders.StatusInProgress:
		return "🔧 в работе"
	case orders.StatusCompleted:
		return "✅ выполнена"
	case orders.StatusCancelled:
		return "❌ отменена"
	}
	return string(s)
}

// listOrders показывает последние заявки; необязательный аргумент — сколько.
func (b *Bot) listOrders(ctx context.Context, chatID int64, arg string) {
	limit := 10
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil && n > 0 && n <= 50 {
		limit = n
	}
	list, err := b.orders.List(ctx, limit)
	if err != nil {
		b.log.Error("list orders failed", "err", err)
		b.reply(chatID, "Не удалось загрузить заявки. Проверь логи.")
		return
	}
	if len(list) == 0 {
		b.reply(chatID, "Заявок пока нет.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Последние заявки (%d):\n\n", len(list))
	for _, o := range list {
		model := "—"
		if dev, ok := b.catalog.DeviceByID(o.DeviceID); ok {
			model = dev.Name
		}
		fmt.Fprintf(&sb, "#%d · %s · %s\n%s, %s — %s\n\n",
			o.ID, o.CreatedAt.Format("02.01 15:04"), statusLabel(o.Status),
			o.Name, model, fmtPrice(o.Price))
	}
	sb.WriteString("Сменить статус: /order_done <id> или /order_cancel <id>")
	b.reply(chatID, sb.String())
}

func (b *Bot) setOrderStatus(ctx context.Context, chatID int64, arg string, status orders.Status) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, "Укажи номер заявки, например: /order_done 12")
		return
	}
	if err := b.orders.UpdateStatus(ctx, id, status); err != nil {
		b.log.Error("update order status failed", "order", id, "err", err)
		b.reply(chatID, "Не удалось обновить статус. Проверь логи.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Заявка #%d: %s.", id, statusLabel(status)))
}

// notifyOrder рассылает уведомление во все подписанные чаты. Ошибка доставки
// в один чат логируется и не мешает остальным.
func (b *Bot) notifyOrder(order *orders.Order, model string) {
	text := "🔔 Новая заявка\n\n" + orderSummary(order.ID, order.Name, order.Phone, model, order.Issue, order.Price)
	for _, chatID := range b.settings.ChatIDs() {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			metrics.NotifyFailures.Inc()
			b.log.Error("order notification failed", "chat", chatID, "order", order.ID, "err", err)
		}
	}
}
