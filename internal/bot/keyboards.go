package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chunkButtons раскладывает кнопки по рядам заданной ширины.
func chunkButtons(btns []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(btns) > 0 {
		n := perRow
		if n > len(btns) {
			n = len(btns)
		}
		rows = append(rows, btns[:n])
		btns = btns[n:]
	}
	return rows
}

func (b *Bot) deviceTypesKeyboard(admin bool) tgbotapi.InlineKeyboardMarkup {
	var btns []tgbotapi.InlineKeyboardButton
	for _, t := range b.catalog.Types() {
		btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(t, "type:"+t))
	}
	rows := chunkButtons(btns, 2)
	if admin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить тип устройства", "adm:add:type"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) modelsKeyboard(typeName string, page int, admin bool) tgbotapi.InlineKeyboardMarkup {
	all := b.catalog.ModelsForType(typeName)
	p := Paginate(len(all), modelsPerPage, page)
	slice := all[p.Start:p.End]

	var btns []tgbotapi.InlineKeyboardButton
	for _, m := range slice {
		btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(m, fmt.Sprintf("mdl:%s:%s", typeName, m)))
	}
	rows := chunkButtons(btns, 2)

	if p.HasNav() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮️", fmt.Sprintf("nav:%s:0", typeName)),
			tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("nav:%s:%d", typeName, max(0, p.Index-1))),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", p.Index+1, p.Count), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("nav:%s:%d", typeName, min(p.Count-1, p.Index+1))),
			tgbotapi.NewInlineKeyboardButtonData("⏭️", fmt.Sprintf("nav:%s:%d", typeName, p.Count-1)),
		))
	} else if len(all) == 0 {
		// пустой тип: вместо стрелок — перечитать список
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", "type:"+typeName),
		))
	}

	if admin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить модель", "adm:add:model:"+typeName),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", "back_types"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) issuesKeyboard(deviceID int64, model string, admin bool) tgbotapi.InlineKeyboardMarkup {
	issues := b.catalog.IssuesForDevice(deviceID)
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, issue := range issues {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(issue, fmt.Sprintf("iss:%d", i)),
		))
	}
	if admin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить работу", "adm:add:issue:"+model),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад к моделям", "back_models"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func issueCardKeyboard(admin bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if admin {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏️ Цена", "adm:edit:price"),
				tgbotapi.NewInlineKeyboardButtonData("📝 Описание", "adm:edit:desc"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🛡️ Гарантия", "adm:edit:warranty"),
				tgbotapi.NewInlineKeyboardButtonData("⏱️ Время", "adm:edit:worktime"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑️ Удалить", "adm:del:issue"),
			),
		)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Оформить заявку", "order"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 К неисправностям", "back_issues"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
