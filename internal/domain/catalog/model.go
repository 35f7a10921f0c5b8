package catalog

import "time"

type DeviceType struct {
	ID        int64
	Name      string
	SortOrder int
	CreatedAt time.Time
}

type Device struct {
	ID        int64
	Name      string
	TypeID    int64
	CreatedAt time.Time
}

// RepairItem — работа из прайса. Гарантия и срок выполнения необязательны.
type RepairItem struct {
	DeviceID    int64
	Title       string
	Price       int
	Description string
	Warranty    *string
	WorkTime    *string
}
