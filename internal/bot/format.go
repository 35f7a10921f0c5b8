package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/remfix/repairbot/internal/domain/catalog"
)

// fmtPrice печатает цену с разбивкой тысяч: 12500 → «12 500 ₽».
func fmtPrice(n int) string {
	digits := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if neg {
		out = "-" + out
	}
	return out + " ₽"
}

// parsePrice разбирает цену из произвольного текста: всё, кроме цифр и точки,
// отбрасывается; результат должен быть конечным и больше нуля, копейки
// округляются до рубля.
func parsePrice(raw string) (int, bool) {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	num, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) || num <= 0 {
		return 0, false
	}
	return int(math.Round(num)), true
}

// normalizePhone приводит телефон к виду +7XXXXXXXXXX.
// Принимаем 10 цифр, 11 с ведущей 7 и 11 с ведущей 8 (восьмёрка
// переписывается на +7); всё остальное отклоняем.
func normalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "+7" + d, true
	case len(d) == 11 && strings.HasPrefix(d, "7"):
		return "+" + d, true
	case len(d) == 11 && strings.HasPrefix(d, "8"):
		return "+7" + d[1:], true
	}
	return "", false
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "—"
	}
	return strings.TrimSpace(*s)
}

// issueCardText — карточка работы: модель, работа, цена, гарантия, срок, описание.
func issueCardText(model string, it catalog.RepairItem) string {
	desc := it.Description
	if strings.TrimSpace(desc) == "" {
		desc = "Описание уточняется."
	}
	lines := []string{
		fmt.Sprintf("📱 %s", model),
		fmt.Sprintf("⚙️ %s", it.Title),
		fmt.Sprintf("💰 %s", fmtPrice(it.Price)),
		fmt.Sprintf("🛡️ Гарантия: %s", orDash(it.Warranty)),
		fmt.Sprintf("⏱️ Время: %s", orDash(it.WorkTime)),
		fmt.Sprintf("ℹ️ %s", desc),
	}
	return strings.Join(lines, "\n")
}

// orderSummary — одинаковый блок и для клиента, и для уведомлений:
// порядок полей фиксированный.
func orderSummary(orderID int64, name, phone, model, issue string, price int) string {
	return fmt.Sprintf(
		"📄 ID: %d\n👤 %s\n📞 %s\n📱 %s\n⚙️ %s\n💰 %s",
		orderID, name, phone, model, issue, fmtPrice(price),
	)
}
