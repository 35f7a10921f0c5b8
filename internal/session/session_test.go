package session

import (
	"sync"
	"testing"
)

func TestStoreCreatesOnFirstGet(t *testing.T) {
	st := NewStore()
	s := st.Get(42)
	if s == nil || s.ChatID != 42 {
		t.Fatalf("session = %+v", s)
	}
	if st.Get(42) != s {
		t.Fatal("second Get must return the same session")
	}
	if st.Len() != 1 {
		t.Fatalf("len = %d", st.Len())
	}
}

func TestStoreDelete(t *testing.T) {
	st := NewStore()
	s := st.Get(1)
	s.Model = "iPhone 14"
	st.Delete(1)
	if got := st.Get(1); got.Model != "" {
		t.Fatalf("expected fresh session, got %+v", got)
	}
}

func TestStoreConcurrentGet(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			st.Get(id % 5)
		}(int64(i))
	}
	wg.Wait()
	if st.Len() != 5 {
		t.Fatalf("len = %d, want 5", st.Len())
	}
}

func TestSelectModelClearsDependentState(t *testing.T) {
	s := &Session{ChatID: 1}
	s.SelectModel("iPhone", 10, "iPhone 14", []string{"Экран", "АКБ"})
	s.Issue = "Экран"
	s.Price = 12500
	s.OrderStep = StepPhone
	s.Wizard = &AddIssue{DeviceID: 10, Stage: AddIssuePrice, Title: "Кнопка"}

	// перевыбор модели обязан сбросить работу, цену, шаг заявки и мастер
	s.SelectModel("iPhone", 11, "iPhone 15", []string{"Камера"})
	if s.Issue != "" || s.Price != 0 || s.OrderStep != StepNone || s.Wizard != nil {
		t.Fatalf("stale sub-state survived: %+v", s)
	}
	if len(s.Issues) != 1 || s.Issues[0] != "Камера" {
		t.Fatalf("issues = %v", s.Issues)
	}
}

func TestIssueAtStaleIndex(t *testing.T) {
	s := &Session{ChatID: 1}
	s.SelectModel("iPhone", 10, "iPhone 14", []string{"Экран", "АКБ"})
	// список сменился на более короткий — старый индекс должен отклоняться
	s.SelectModel("iPhone", 11, "iPhone 15", []string{"Камера"})

	if _, ok := s.IssueAt(1); ok {
		t.Fatal("index from the old keyboard must not resolve")
	}
	if _, ok := s.IssueAt(-1); ok {
		t.Fatal("negative index must not resolve")
	}
	issue, ok := s.IssueAt(0)
	if !ok || issue != "Камера" {
		t.Fatalf("IssueAt(0) = %q, %v", issue, ok)
	}
}

func TestResetNavigationKeepsMessageRefs(t *testing.T) {
	s := &Session{ChatID: 1, KeyboardMsgID: 100, DetailMsgID: 200}
	s.SelectModel("iPhone", 10, "iPhone 14", []string{"Экран"})
	s.Name = "Иван"
	s.ResetNavigation()

	if s.Model != "" || s.Issues != nil || s.Name != "" {
		t.Fatalf("navigation not reset: %+v", s)
	}
	// ссылки на сообщения переживают сброс — иначе не удалить старые клавиатуры
	if s.KeyboardMsgID != 100 || s.DetailMsgID != 200 {
		t.Fatalf("message refs lost: %+v", s)
	}
}

func TestWizardStageProgression(t *testing.T) {
	w := &AddIssue{DeviceID: 10, Stage: AddIssueTitle}
	w.Title = "Замена экрана"
	w.Stage = AddIssuePrice
	w.Price = 5000
	w.Stage = AddIssueDescription

	// накопленное на пройденных этапах не теряется
	if w.Title != "Замена экрана" || w.Price != 5000 {
		t.Fatalf("draft lost: %+v", w)
	}

	var _ Wizard = w
	var _ Wizard = &EditField{Field: FieldPrice, DeviceID: 10, Issue: "Экран"}
	var _ Wizard = &DeleteIssue{DeviceID: 10, Issue: "Экран"}
	var _ Wizard = &AddDeviceType{Stage: AddTypeName}
	var _ Wizard = &AddModel{TypeName: "iPhone"}
}
