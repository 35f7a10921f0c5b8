package session

// OrderStep — этап оформления заявки.
type OrderStep int

const (
	StepNone OrderStep = iota
	StepName
	StepPhone
)

// Session — состояние диалога одного чата. Живёт только в памяти процесса.
type Session struct {
	ChatID int64

	// Навигация по каталогу
	DeviceType string
	DeviceID   int64
	Model      string
	Issues     []string // список работ, зафиксированный в момент выбора модели
	Issue      string
	Price      int

	// Оформление заявки
	OrderStep OrderStep
	Name      string
	Phone     string

	// Активный админ-мастер (nil — мастера нет)
	Wizard Wizard

	// Сообщения бота, которые заменяем при перерисовке
	KeyboardMsgID int
	DetailMsgID   int
}

// ResetNavigation сбрасывает навигацию и все вложенные под-состояния.
// ID сообщений сохраняем, чтобы уметь удалить старые клавиатуры.
func (s *Session) ResetNavigation() {
	s.DeviceType = ""
	s.DeviceID = 0
	s.Model = ""
	s.Issues = nil
	s.ClearSelection()
	s.Name = ""
	s.Phone = ""
}

// ClearSelection сбрасывает выбранную работу и всё, что от неё зависит.
// Вызывается при любой структурной навигации (перевыбор модели/типа).
func (s *Session) ClearSelection() {
	s.Issue = ""
	s.Price = 0
	s.OrderStep = StepNone
	s.Wizard = nil
}

// SelectModel фиксирует выбранную модель и актуальный список работ.
func (s *Session) SelectModel(deviceType string, deviceID int64, model string, issues []string) {
	s.DeviceType = deviceType
	s.DeviceID = deviceID
	s.Model = model
	s.Issues = issues
	s.ClearSelection()
}

// IssueAt возвращает работу по позиции в зафиксированном списке.
func (s *Session) IssueAt(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.Issues) {
		return "", false
	}
	return s.Issues[idx], true
}
