package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/remfix/repairbot/internal/domain/catalog"
	"github.com/remfix/repairbot/internal/session"
)

// handleAdminCallback заводит мастер редактирования. Право на действие
// проверяется здесь же, при каждом нажатии.
func (b *Bot) handleAdminCallback(cb *tgbotapi.CallbackQuery, sess *session.Session, userID int64, data string) {
	if !b.isAdminMode(userID) {
		b.answerCallback(cb, "Нет доступа", true)
		return
	}
	chatID := sess.ChatID

	startEdit := func(field session.Field, prompt string) {
		if sess.DeviceID == 0 || sess.Issue == "" {
			b.answerCallback(cb, "Сначала выбери работу", true)
			return
		}
		sess.Wizard = &session.EditField{Field: field, DeviceID: sess.DeviceID, Issue: sess.Issue}
		sess.OrderStep = session.StepNone
		b.answerCallback(cb, "", false)
		b.reply(chatID, prompt)
	}

	switch {
	case data == "adm:edit:price":
		startEdit(session.FieldPrice, fmt.Sprintf("Введи новую цену для «%s» в ₽ (число).", sess.Issue))
	case data == "adm:edit:desc":
		startEdit(session.FieldDescription, fmt.Sprintf("Введи новое описание для «%s».", sess.Issue))
	case data == "adm:edit:warranty":
		startEdit(session.FieldWarranty, fmt.Sprintf("Введи новую гарантию для «%s» (например: «30 дней», «6 месяцев»).", sess.Issue))
	case data == "adm:edit:worktime":
		startEdit(session.FieldWorkTime, fmt.Sprintf("Введи новое время выполнения для «%s» (например: «2 часа», «1-2 дня»).", sess.Issue))

	case data == "adm:del:issue":
		if sess.DeviceID == 0 || sess.Issue == "" {
			b.answerCallback(cb, "Сначала выбери работу", true)
			return
		}
		sess.Wizard = &session.DeleteIssue{DeviceID: sess.DeviceID, Issue: sess.Issue}
		sess.OrderStep = session.StepNone
		b.answerCallback(cb, "", false)
		b.reply(chatID, fmt.Sprintf("Точно удалить «%s» для %s? Это действие нельзя будет отменить. Напиши «да» для подтверждения.", sess.Issue, sess.Model))

	case data == "adm:add:type":
		sess.Wizard = &session.AddDeviceType{Stage: session.AddTypeName}
		sess.OrderStep = session.StepNone
		b.answerCallback(cb, "", false)
		b.reply(chatID, "Введи название нового типа устройства (например: «iPhone», «MacBook», «iPad»):")

	case strings.HasPrefix(data, "adm:add:model:"):
		typeName := strings.TrimPrefix(data, "adm:add:model:")
		sess.Wizard = &session.AddModel{TypeName: typeName}
		sess.OrderStep = session.StepNone
		b.answerCallback(cb, "", false)
		b.reply(chatID, fmt.Sprintf("Введи название новой модели для типа «%s» (например: «iPhone 15 Pro»):", typeName))

	case strings.HasPrefix(data, "adm:add:issue:"):
		model := strings.TrimPrefix(data, "adm:add:issue:")
		dev, ok := b.catalog.DeviceByName(model)
		if !ok {
			b.answerCallback(cb, "Модель не найдена", true)
			return
		}
		sess.Wizard = &session.AddIssue{DeviceID: dev.ID, Stage: session.AddIssueTitle}
		sess.OrderStep = session.StepNone
		b.answerCallback(cb, "", false)
		b.reply(chatID, fmt.Sprintf("Добавляем новую работу для %s. Напиши название работы:", model))

	default:
		b.answerCallback(cb, "", false)
	}
}

// handleWizardInput обрабатывает текстовый ввод активного мастера.
// Невалидный ввод переспрашивает тот же этап и не трогает накопленное.
func (b *Bot) handleWizardInput(ctx context.Context, sess *session.Session, userID int64, text string) {
	switch w := sess.Wizard.(type) {
	case *session.EditField:
		b.wizardEditField(ctx, sess, w, text)
	case *session.DeleteIssue:
		b.wizardDeleteIssue(ctx, sess, userID, w, text)
	case *session.AddIssue:
		b.wizardAddIssue(ctx, sess, userID, w, text)
	case *session.AddDeviceType:
		b.wizardAddDeviceType(ctx, sess, userID, w, text)
	case *session.AddModel:
		b.wizardAddModel(ctx, sess, userID, w, text)
	}
}

// optional: пустой ввод хранится как NULL.
func optional(text string) *string {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	return &t
}

func (b *Bot) wizardEditField(ctx context.Context, sess *session.Session, w *session.EditField, text string) {
	chatID := sess.ChatID

	var err error
	switch w.Field {
	case session.FieldPrice:
		price, ok := parsePrice(text)
		if !ok {
			b.reply(chatID, "Не получилось распознать число. Введи цену в рублях, например 12500.")
			return
		}
		err = b.store.UpdatePrice(ctx, w.DeviceID, w.Issue, price)
	case session.FieldDescription:
		err = b.store.UpdateDescription(ctx, w.DeviceID, w.Issue, text)
	case session.FieldWarranty:
		err = b.store.UpdateWarranty(ctx, w.DeviceID, w.Issue, optional(text))
	case session.FieldWorkTime:
		err = b.store.UpdateWorkTime(ctx, w.DeviceID, w.Issue, optional(text))
	}

	sess.Wizard = nil
	if err != nil {
		b.log.Error("update repair failed", "field", w.Field, "err", err)
		b.reply(chatID, "Не удалось сохранить изменения. Проверь логи.")
		return
	}
	if err := b.refreshCatalog(ctx); err != nil {
		b.reply(chatID, "Сохранено, но кэш не обновился — выполни /reload.")
		return
	}
	b.reply(chatID, "Данные обновлены.")
	if it, ok := b.catalog.Repair(w.DeviceID, w.Issue); ok {
		b.replaceDetail(sess, issueCardText(sess.Model, it), issueCardKeyboard(true))
	}
}

func (b *Bot) wizardDeleteIssue(ctx context.Context, sess *session.Session, userID int64, w *session.DeleteIssue, text string) {
	chatID := sess.ChatID
	sess.Wizard = nil

	if strings.ToLower(strings.TrimSpace(text)) != "да" {
		b.reply(chatID, "Удаление отменено.")
		return
	}
	if err := b.store.DeleteRepair(ctx, w.DeviceID, w.Issue); err != nil {
		b.log.Error("delete repair failed", "err", err)
		b.reply(chatID, "Не удалось удалить. Проверь логи.")
		return
	}
	if err := b.refreshCatalog(ctx); err != nil {
		b.reply(chatID, "Удалено, но кэш не обновился — выполни /reload.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Работа «%s» для %s удалена.", w.Issue, sess.Model))

	sess.Issues = b.catalog.IssuesForDevice(w.DeviceID)
	sess.Issue = ""
	sess.Price = 0
	b.sendKeyboard(sess,
		fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", sess.Model),
		b.issuesKeyboard(w.DeviceID, sess.Model, b.isAdminMode(userID)))
}

func (b *Bot) wizardAddIssue(ctx context.Context, sess *session.Session, userID int64, w *session.AddIssue, text string) {
	chatID := sess.ChatID

	switch w.Stage {
	case session.AddIssueTitle:
		title := strings.TrimSpace(text)
		if title == "" {
			b.reply(chatID, "Название не может быть пустым. Попробуй ещё раз.")
			return
		}
		for _, existing := range b.catalog.IssuesForDevice(w.DeviceID) {
			if existing == title {
				b.reply(chatID, "Такая работа уже есть. Введи другое название.")
				return
			}
		}
		w.Title = title
		w.Stage = session.AddIssuePrice
		b.reply(chatID, "Теперь введи цену в ₽ (число).")

	case session.AddIssuePrice:
		price, ok := parsePrice(text)
		if !ok {
			b.reply(chatID, "Не получилось распознать число. Введи цену в рублях, например 12500.")
			return
		}
		w.Price = price
		w.Stage = session.AddIssueDescription
		b.reply(chatID, "Опиши работу. Можно несколько предложений.")

	case session.AddIssueDescription:
		w.Description = text
		w.Stage = session.AddIssueWarranty
		b.reply(chatID, "Укажи гарантию (например: «30 дней», «6 месяцев» или оставь пустым).")

	case session.AddIssueWarranty:
		w.Warranty = strings.TrimSpace(text)
		w.Stage = session.AddIssueWorkTime
		b.reply(chatID, "Укажи время выполнения работы (например: «2 часа», «1-2 дня» или оставь пустым).")

	case session.AddIssueWorkTime:
		w.WorkTime = strings.TrimSpace(text)
		sess.Wizard = nil

		it := catalog.RepairItem{
			DeviceID:    w.DeviceID,
			Title:       w.Title,
			Price:       w.Price,
			Description: w.Description,
			Warranty:    optional(w.Warranty),
			WorkTime:    optional(w.WorkTime),
		}
		if err := b.store.InsertRepair(ctx, it); err != nil {
			b.log.Error("insert repair failed", "err", err)
			b.reply(chatID, "Не удалось сохранить изменения. Проверь логи.")
			return
		}
		if err := b.refreshCatalog(ctx); err != nil {
			b.reply(chatID, "Сохранено, но кэш не обновился — выполни /reload.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Работа «%s» добавлена к %s.", w.Title, sess.Model))

		sess.Issues = b.catalog.IssuesForDevice(w.DeviceID)
		b.sendKeyboard(sess,
			fmt.Sprintf("📱 Модель: %s\nВыбери неисправность:", sess.Model),
			b.issuesKeyboard(w.DeviceID, sess.Model, b.isAdminMode(userID)))
	}
}

func (b *Bot) wizardAddDeviceType(ctx context.Context, sess *session.Session, userID int64, w *session.AddDeviceType, text string) {
	chatID := sess.ChatID

	switch w.Stage {
	case session.AddTypeName:
		name := strings.TrimSpace(text)
		if name == "" {
			b.reply(chatID, "Название типа не может быть пустым. Попробуй ещё раз.")
			return
		}
		w.Name = name
		w.Stage = session.AddTypeSortOrder
		b.reply(chatID, fmt.Sprintf("Название: «%s». Теперь введи порядок сортировки (число, чем меньше — тем выше в списке, например: 1, 2, 3...).", name))

	case session.AddTypeSortOrder:
		sortOrder, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || sortOrder < 0 {
			b.reply(chatID, "Порядок сортировки должен быть целым неотрицательным числом. Попробуй ещё раз.")
			return
		}

		inserted, err := b.store.InsertDeviceType(ctx, w.Name, sortOrder)
		if err != nil {
			sess.Wizard = nil
			b.log.Error("insert device type failed", "err", err)
			b.reply(chatID, "Не удалось добавить тип устройства. Проверь логи.")
			return
		}
		if !inserted {
			w.Stage = session.AddTypeName
			b.reply(chatID, fmt.Sprintf("Тип «%s» уже есть. Введи другое название:", w.Name))
			return
		}
		sess.Wizard = nil
		if err := b.refreshCatalog(ctx); err != nil {
			b.reply(chatID, "Сохранено, но кэш не обновился — выполни /reload.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Тип устройства «%s» добавлен!", w.Name))
		b.sendKeyboard(sess, "Выбери тип устройства:", b.deviceTypesKeyboard(b.isAdminMode(userID)))
	}
}

func (b *Bot) wizardAddModel(ctx context.Context, sess *session.Session, userID int64, w *session.AddModel, text string) {
	chatID := sess.ChatID

	name := strings.TrimSpace(text)
	if name == "" {
		b.reply(chatID, "Название модели не может быть пустым. Попробуй ещё раз.")
		return
	}

	t, ok := b.catalog.TypeByName(w.TypeName)
	if !ok {
		sess.Wizard = nil
		b.reply(chatID, "Не удалось найти тип устройства. Попробуй заново.")
		return
	}
	inserted, err := b.store.InsertDevice(ctx, name, t.ID)
	if err != nil {
		sess.Wizard = nil
		b.log.Error("insert device failed", "err", err)
		b.reply(chatID, "Не удалось добавить модель. Проверь логи.")
		return
	}
	if !inserted {
		b.reply(chatID, fmt.Sprintf("Модель «%s» уже есть. Введи другое название:", name))
		return
	}
	sess.Wizard = nil
	if err := b.refreshCatalog(ctx); err != nil {
		b.reply(chatID, "Сохранено, но кэш не обновился — выполни /reload.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Модель «%s» добавлена к типу «%s».", name, w.TypeName))
	b.sendKeyboard(sess, fmt.Sprintf("Выбери модель %s:", w.TypeName), b.modelsKeyboard(w.TypeName, 0, b.isAdminMode(userID)))
}
