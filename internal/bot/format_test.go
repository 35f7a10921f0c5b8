package bot

import (
	"strings"
	"testing"

	"github.com/remfix/repairbot/internal/domain/catalog"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12500", 12500, true},
		{"12 500 ₽", 12500, true},
		{"1,500", 1500, true},
		{"4999.5", 5000, true},
		{"abc", 0, false},
		{"0", 0, false},
		{"-100", 100, true}, // минус отбрасывается вместе с прочим мусором
		{"", 0, false},
		{"₽", 0, false},
	}
	for _, tc := range cases {
		got, ok := parsePrice(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parsePrice(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFmtPrice(t *testing.T) {
	cases := map[int]string{
		0:       "0 ₽",
		500:     "500 ₽",
		5000:    "5 000 ₽",
		12500:   "12 500 ₽",
		1250000: "1 250 000 ₽",
	}
	for in, want := range cases {
		if got := fmtPrice(in); got != want {
			t.Fatalf("fmtPrice(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9001234567", "+79001234567", true},
		{"89001234567", "+79001234567", true},
		{"+79001234567", "+79001234567", true},
		{"+7 (900) 123-45-67", "+79001234567", true},
		{"8 (900) 123-45-67", "+79001234567", true},
		{"123", "", false},
		{"", "", false},
		{"59001234567", "", false},   // 11 цифр, но не 7/8
		{"790012345678", "", false},  // 12 цифр
		{"телефона нет", "", false},
	}
	for _, tc := range cases {
		got, ok := normalizePhone(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("normalizePhone(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIssueCardText(t *testing.T) {
	w := "30 дней"
	it := catalog.RepairItem{Title: "Замена экрана", Price: 12500, Description: "Оригинальный дисплей", Warranty: &w}
	text := issueCardText("iPhone 14", it)
	for _, want := range []string{"iPhone 14", "Замена экрана", "12 500 ₽", "Гарантия: 30 дней", "Время: —", "Оригинальный дисплей"} {
		if !strings.Contains(text, want) {
			t.Fatalf("card missing %q:\n%s", want, text)
		}
	}
}

func TestOrderSummaryFieldOrder(t *testing.T) {
	s := orderSummary(42, "Иван", "+79001234567", "iPhone 14", "Замена экрана", 12500)
	idx := func(sub string) int { return strings.Index(s, sub) }
	order := []string{"ID: 42", "Иван", "+79001234567", "iPhone 14", "Замена экрана", "12 500 ₽"}
	last := -1
	for _, sub := range order {
		i := idx(sub)
		if i < 0 || i < last {
			t.Fatalf("field %q out of order in %q", sub, s)
		}
		last = i
	}
}
