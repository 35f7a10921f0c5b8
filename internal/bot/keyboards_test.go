package bot

import (
	"fmt"
	"testing"

	"github.com/remfix/repairbot/internal/domain/catalog"
)

func manyModels(n int) *fakeBackend {
	be := &fakeBackend{
		types: []catalog.DeviceType{{ID: 1, Name: "iPhone", SortOrder: 1}},
	}
	for i := 0; i < n; i++ {
		be.devices = append(be.devices, catalog.Device{
			ID: int64(10 + i), Name: fmt.Sprintf("iPhone %02d", i), TypeID: 1,
		})
	}
	return be
}

func TestDeviceTypesKeyboardAdminRow(t *testing.T) {
	b, _ := newWiredBot(t, &fakeBackend{types: []catalog.DeviceType{
		{ID: 1, Name: "iPhone", SortOrder: 1},
		{ID: 2, Name: "iPad", SortOrder: 2},
		{ID: 3, Name: "MacBook", SortOrder: 3},
	}}, nil)

	kb := b.deviceTypesKeyboard(false)
	// три типа по два в ряд: 2 + 1
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "type:iPhone" {
		t.Fatalf("callback = %q", got)
	}

	adm := b.deviceTypesKeyboard(true)
	last := adm.InlineKeyboard[len(adm.InlineKeyboard)-1]
	if *last[0].CallbackData != "adm:add:type" {
		t.Fatalf("admin row = %q", *last[0].CallbackData)
	}
}

func TestModelsKeyboardPagination(t *testing.T) {
	b, _ := newWiredBot(t, manyModels(30), nil)

	kb := b.modelsKeyboard("iPhone", 1, false)
	var navRow []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && (*btn.CallbackData == "noop" || len(*btn.CallbackData) > 4 && (*btn.CallbackData)[:4] == "nav:") {
				navRow = append(navRow, *btn.CallbackData)
			}
		}
	}
	want := []string{"nav:iPhone:0", "nav:iPhone:0", "noop", "nav:iPhone:2", "nav:iPhone:2"}
	if len(navRow) != len(want) {
		t.Fatalf("nav buttons = %v", navRow)
	}
	for i := range want {
		if navRow[i] != want[i] {
			t.Fatalf("nav[%d] = %q, want %q", i, navRow[i], want[i])
		}
	}
}

func TestModelsKeyboardSinglePageHasNoNav(t *testing.T) {
	b, _ := newWiredBot(t, manyModels(5), nil)
	kb := b.modelsKeyboard("iPhone", 0, false)
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && *btn.CallbackData == "noop" {
				t.Fatal("nav row present on a single page")
			}
		}
	}
}

func TestModelsKeyboardEmptyTypeShowsRefresh(t *testing.T) {
	b, _ := newWiredBot(t, &fakeBackend{types: []catalog.DeviceType{{ID: 1, Name: "iPhone", SortOrder: 1}}}, nil)
	kb := b.modelsKeyboard("iPhone", 0, false)
	found := false
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && *btn.CallbackData == "type:iPhone" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("empty type must offer a refresh button")
	}
}

func TestIssuesKeyboardIndexesInOrder(t *testing.T) {
	be := manyModels(1)
	be.repairs = []catalog.RepairItem{
		{DeviceID: 10, Title: "Замена экрана", Price: 12500},
		{DeviceID: 10, Title: "Замена АКБ", Price: 5000},
	}
	b, _ := newWiredBot(t, be, nil)

	kb := b.issuesKeyboard(10, "iPhone 00", true)
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "iss:0" {
		t.Fatalf("first issue callback = %q", got)
	}
	if got := *kb.InlineKeyboard[1][0].CallbackData; got != "iss:1" {
		t.Fatalf("second issue callback = %q", got)
	}
	if got := *kb.InlineKeyboard[2][0].CallbackData; got != "adm:add:issue:iPhone 00" {
		t.Fatalf("admin add row = %q", got)
	}
}

func TestIssueCardKeyboard(t *testing.T) {
	plain := issueCardKeyboard(false)
	if len(plain.InlineKeyboard) != 2 {
		t.Fatalf("client rows = %d", len(plain.InlineKeyboard))
	}
	if *plain.InlineKeyboard[0][0].CallbackData != "order" {
		t.Fatalf("first client button = %q", *plain.InlineKeyboard[0][0].CallbackData)
	}

	adm := issueCardKeyboard(true)
	if len(adm.InlineKeyboard) != 5 {
		t.Fatalf("admin rows = %d", len(adm.InlineKeyboard))
	}
	if *adm.InlineKeyboard[0][0].CallbackData != "adm:edit:price" {
		t.Fatalf("first admin button = %q", *adm.InlineKeyboard[0][0].CallbackData)
	}
}
