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

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Text != "" {
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	sess := b.sessions.Get(chatID)

	switch msg.Command() {
	case "start":
		sess.ResetNavigation()
		b.setCommandsForChat(chatID, b.isAdminMode(userID))
		b.sendKeyboard(sess,
			"Привет! 👋 Я помогу рассчитать ремонт. Сначала выбери тип устройства:",
			b.deviceTypesKeyboard(b.isAdminMode(userID)))

	case "models":
		b.sendKeyboard(sess, "Выбери тип устройства:", b.deviceTypesKeyboard(b.isAdminMode(userID)))

	case "admin":
		b.handleAdminCommand(ctx, msg, sess)

	case "reload":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		if err := b.refreshCatalog(ctx); err != nil {
			b.reply(chatID, "Не удалось перечитать прайс. Проверь логи.")
			return
		}
		b.reply(chatID, "🔄 Прайс перезагружен из базы данных.")

	case "notify_here":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		if err := b.settings.Add(ctx, chatID); err != nil {
			b.log.Error("add notify chat failed", "chat", chatID, "err", err)
			b.reply(chatID, "Не удалось сохранить настройки. Проверь логи.")
			return
		}
		b.reply(chatID, "✅ Этот чат теперь получает уведомления о новых заявках.")

	case "stop_notify":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		if err := b.settings.Remove(ctx, chatID); err != nil {
			b.log.Error("remove notify chat failed", "chat", chatID, "err", err)
			b.reply(chatID, "Не удалось обновить настройки. Проверь логи.")
			return
		}
		b.reply(chatID, "🔕 Этот чат больше не получает уведомления. Если нужно снова — /notify_here.")

	case "orders":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		b.listOrders(ctx, chatID, msg.CommandArguments())

	case "order_done":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		b.setOrderStatus(ctx, chatID, msg.CommandArguments(), orders.StatusCompleted)

	case "order_cancel":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		b.setOrderStatus(ctx, chatID, msg.CommandArguments(), orders.StatusCancelled)

	case "notify_list":
		if !b.isAdmin(userID) {
			b.reply(chatID, "Команда доступна только администратору.")
			return
		}
		chats := b.settings.ChatIDs()
		if len(chats) == 0 {
			b.reply(chatID, "Уведомления никуда не отправляются. Используй /notify_here в нужном чате.")
			return
		}
		var sb strings.Builder
		sb.WriteString("Сейчас уведомления идут в:\n")
		for _, id := range chats {
			fmt.Fprintf(&sb, "• %d\n", id)
		}
		b.reply(chatID, sb.String())

	default:
		b.reply(chatID, "Не знаю такую команду. Начни с /start")
	}
}

func (b *Bot) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message, sess *session.Session) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	if !b.isAdmin(userID) {
		b.reply(chatID, "Нет доступа.")
		return
	}

	arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if arg == "off" || arg == "exit" || arg == "stop" {
		b.setAdminMode(userID, false)
		sess.Wizard = nil
		b.setCommandsForChat(chatID, false)
		b.reply(chatID, "Админ-режим выключен. Кнопки и команды скрыты.")
		return
	}

	if b.isAdminMode(userID) {
		b.reply(chatID, "Админ-режим уже включён.")
		return
	}
	b.setAdminMode(userID, true)
	b.setCommandsForChat(chatID, true)
	b.reply(chatID, fmt.Sprintf("Админ-режим включён (ID: %d). Повтори выбор модели и неисправности, чтобы увидеть кнопки редактирования.", userID))

	// Перерисовать текущий экран уже с админскими кнопками
	switch {
	case sess.DeviceID != 0 && sess.Issue != "":
		if it, ok := b.catalog.Repair(sess.DeviceID, sess.Issue); ok {
			b.replaceDetail(sess, issueCardText(sess.Model, it), issueCardKeyboard(true))
			return
		}
		fallthrough
	case sess.DeviceID != 0 && sess.Model != "":
		b.sendKeyboard(sess,
			fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", sess.Model),
			b.issuesKeyboard(sess.DeviceID, sess.Model, true))
	default:
		b.sendKeyboard(sess, "Выбери тип устройства:", b.deviceTypesKeyboard(true))
	}
}

// setCommandsForChat выставляет меню команд чата: админ в админ-режиме видит
// служебные команды, остальные — только базовые.
func (b *Bot) setCommandsForChat(chatID int64, admin bool) {
	cmds := []tgbotapi.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "models", Description: "Выбрать тип устройства"},
	}
	if admin {
		cmds = append(cmds,
			tgbotapi.BotCommand{Command: "admin", Description: "Включить/выключить админ режим"},
			tgbotapi.BotCommand{Command: "reload", Description: "Перезагрузить прайс-лист"},
			tgbotapi.BotCommand{Command: "orders", Description: "Последние заявки"},
			tgbotapi.BotCommand{Command: "notify_here", Description: "Включить уведомления в этом чате"},
			tgbotapi.BotCommand{Command: "stop_notify", Description: "Отключить уведомления в этом чате"},
			tgbotapi.BotCommand{Command: "notify_list", Description: "Список чатов с уведомлениями"},
		)
	}
	scoped := tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID), cmds...)
	if _, err := b.api.Request(scoped); err != nil {
		b.log.Debug("set chat commands failed", "chat", chatID, "err", err)
	}
}

// refreshCatalog — полный пересбор снапшота; вызывается после каждой мутации.
func (b *Bot) refreshCatalog(ctx context.Context) error {
	if err := b.catalog.Refresh(ctx); err != nil {
		return err
	}
	metrics.CatalogRefreshes.Inc()
	return nil
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)
	sess := b.sessions.Get(chatID)

	// 1. Активный админ-мастер забирает ввод первым.
	if b.isAdminMode(userID) && sess.Wizard != nil {
		b.handleWizardInput(ctx, sess, userID, text)
		return
	}

	// 2. Текст, совпавший с названием модели, — быстрый переход к работам.
	if dev, ok := b.catalog.DeviceByName(text); ok {
		sess.SelectModel(b.catalog.TypeNameFor(dev), dev.ID, dev.Name, b.catalog.IssuesForDevice(dev.ID))
		b.sendKeyboard(sess,
			fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", dev.Name),
			b.issuesKeyboard(dev.ID, dev.Name, b.isAdminMode(userID)))
		return
	}

	// 3. Шаги оформления заявки.
	switch sess.OrderStep {
	case session.StepName:
		b.handleOrderName(sess, text)
		return
	case session.StepPhone:
		b.handleOrderPhone(ctx, sess, text)
		return
	}

	// 4. Иначе показываем главное меню.
	b.sendKeyboard(sess, "Выбери тип устройства из меню ниже:", b.deviceTypesKeyboard(b.isAdminMode(userID)))
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		b.answerCallback(cb, "", false)
		return
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	msgID := cb.Message.MessageID
	data := cb.Data
	sess := b.sessions.Get(chatID)
	admin := b.isAdminMode(userID)

	switch {
	case data == "noop":
		b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "type:"):
		typeName := strings.TrimPrefix(data, "type:")
		sess.DeviceType = typeName
		b.editOrSend(sess, msgID, fmt.Sprintf("Выбери модель %s:", typeName), b.modelsKeyboard(typeName, 0, admin))
		b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "nav:"):
		// nav:<type>:<page> — непрозрачный токен, содержимое перечитываем сами
		rest := strings.TrimPrefix(data, "nav:")
		i := strings.LastIndex(rest, ":")
		if i < 0 {
			b.answerCallback(cb, "", false)
			return
		}
		typeName := rest[:i]
		page, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			// битый номер страницы в токене — ведём на первую
			page = 0
		}
		b.editOrSend(sess, msgID, fmt.Sprintf("Выбери модель %s:", typeName), b.modelsKeyboard(typeName, page, admin))
		b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "mdl:"):
		rest := strings.TrimPrefix(data, "mdl:")
		i := strings.Index(rest, ":")
		if i < 0 {
			b.answerCallback(cb, "", false)
			return
		}
		model := rest[i+1:]
		dev, ok := b.catalog.DeviceByName(model)
		if !ok {
			// кнопка устарела: модель удалили после отрисовки клавиатуры
			b.answerCallback(cb, "Устройство не найдено", true)
			return
		}
		sess.SelectModel(rest[:i], dev.ID, model, b.catalog.IssuesForDevice(dev.ID))
		b.editOrSend(sess, msgID, fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", model), b.issuesKeyboard(dev.ID, model, admin))
		b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "iss:"):
		b.handleIssuePick(cb, sess, data, admin)

	case data == "back_types":
		sess.ClearSelection()
		b.editOrSend(sess, msgID, "Выбери тип устройства:", b.deviceTypesKeyboard(admin))
		b.answerCallback(cb, "", false)

	case data == "back_models":
		sess.ClearSelection()
		if sess.DeviceType == "" {
			b.editOrSend(sess, msgID, "Выбери тип устройства:", b.deviceTypesKeyboard(admin))
		} else {
			b.editOrSend(sess, msgID, fmt.Sprintf("Выбери модель %s:", sess.DeviceType), b.modelsKeyboard(sess.DeviceType, 0, admin))
		}
		b.answerCallback(cb, "", false)

	case data == "back_issues":
		if sess.Model == "" || sess.DeviceID == 0 {
			b.answerCallback(cb, "", false)
			return
		}
		b.editOrSend(sess, msgID, fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", sess.Model), b.issuesKeyboard(sess.DeviceID, sess.Model, admin))
		b.answerCallback(cb, "", false)

	case data == "order":
		sess.OrderStep = session.StepName
		sess.Wizard = nil
		b.answerCallback(cb, "", false)
		b.reply(chatID, "Окей! Введи, пожалуйста, как тебя зовут:")

	case strings.HasPrefix(data, "adm:"):
		b.handleAdminCallback(cb, sess, userID, data)

	default:
		b.answerCallback(cb, "", false)
	}
}

// handleIssuePick резолвит работу по позиции в списке, зафиксированном при
// выборе модели. Индекс с устаревшей клавиатуры не роняет сессию.
func (b *Bot) handleIssuePick(cb *tgbotapi.CallbackQuery, sess *session.Session, data string, admin bool) {
	idx, err := strconv.Atoi(strings.TrimPrefix(data, "iss:"))
	if err != nil {
		b.answerCallback(cb, "", false)
		return
	}
	issue, ok := sess.IssueAt(idx)
	if !ok || sess.DeviceID == 0 {
		b.answerCallback(cb, "Сессия сброшена, выбери модель заново.", true)
		return
	}
	it, ok := b.catalog.Repair(sess.DeviceID, issue)
	if !ok {
		b.answerCallback(cb, "Не удалось загрузить работу", true)
		return
	}

	sess.Issue = issue
	sess.Price = it.Price

	edit := tgbotapi.NewEditMessageTextAndMarkup(sess.ChatID, cb.Message.MessageID, issueCardText(sess.Model, it), issueCardKeyboard(admin))
	if _, err := b.api.Send(edit); err == nil {
		sess.DetailMsgID = cb.Message.MessageID
	} else {
		b.replaceDetail(sess, issueCardText(sess.Model, it), issueCardKeyboard(admin))
	}
	b.answerCallback(cb, "", false)
}
