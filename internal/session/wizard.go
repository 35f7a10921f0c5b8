package session

// Wizard — активный админ-мастер редактирования каталога.
// Закрытый интерфейс: каждый режим несёт только свои поля и свой набор этапов,
// невалидная комбинация режим/этап не представима.
type Wizard interface {
	wizard()
}

// Field — редактируемое поле работы.
type Field string

const (
	FieldPrice       Field = "price"
	FieldDescription Field = "description"
	FieldWarranty    Field = "warranty"
	FieldWorkTime    Field = "work_time"
)

// EditField — одноэтапное редактирование поля существующей работы.
type EditField struct {
	Field    Field
	DeviceID int64
	Issue    string
}

// DeleteIssue — подтверждение удаления работы (ждём «да»).
type DeleteIssue struct {
	DeviceID int64
	Issue    string
}

// AddIssueStage — этапы добавления работы, строго по порядку.
type AddIssueStage int

const (
	AddIssueTitle AddIssueStage = iota
	AddIssuePrice
	AddIssueDescription
	AddIssueWarranty
	AddIssueWorkTime
)

// AddIssue — пошаговое добавление новой работы. Черновик копится по этапам,
// в базу уходит только на последнем.
type AddIssue struct {
	DeviceID int64
	Stage    AddIssueStage

	Title       string
	Price       int
	Description string
	Warranty    string
	WorkTime    string
}

// AddTypeStage — этапы добавления типа устройства.
type AddTypeStage int

const (
	AddTypeName AddTypeStage = iota
	AddTypeSortOrder
)

// AddDeviceType — добавление нового типа устройства.
type AddDeviceType struct {
	Stage AddTypeStage
	Name  string
}

// AddModel — добавление модели к уже выбранному типу. Единственный этап — имя.
type AddModel struct {
	TypeName string
}

func (*EditField) wizard()     {}
func (*DeleteIssue) wizard()   {}
func (*AddIssue) wizard()      {}
func (*AddDeviceType) wizard() {}
func (*AddModel) wizard()      {}
