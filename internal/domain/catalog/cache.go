package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Loader грузит каталог из хранилища. В проде это *Repo.
type Loader interface {
	LoadAll(ctx context.Context) ([]DeviceType, []Device, []RepairItem, error)
}

// Snapshot — неизменяемая проекция каталога для быстрых чтений.
// Группировка и сортировка считаются при сборке, не хранятся в базе.
type snapshot struct {
	types           []DeviceType
	modelsByType    map[string][]string
	deviceByName    map[string]Device
	deviceByID      map[int64]Device
	repairsByDevice map[int64][]RepairItem
	typeNameByID    map[int64]string
}

// Cache держит текущий снапшот за atomic.Pointer: читатели никогда не видят
// наполовину обновлённые данные, а конкурентный Refresh просто перезапишет
// результат предыдущего.
type Cache struct {
	loader Loader
	log    *slog.Logger
	snap   atomic.Pointer[snapshot]
}

func NewCache(loader Loader, log *slog.Logger) *Cache {
	c := &Cache{loader: loader, log: log}
	c.snap.Store(emptySnapshot())
	return c
}

func emptySnapshot() *snapshot {
	return &snapshot{
		modelsByType:    map[string][]string{},
		deviceByName:    map[string]Device{},
		deviceByID:      map[int64]Device{},
		repairsByDevice: map[int64][]RepairItem{},
		typeNameByID:    map[int64]string{},
	}
}

// Refresh пересобирает снапшот целиком. При ошибке загрузки прежний снапшот
// остаётся на месте.
func (c *Cache) Refresh(ctx context.Context) error {
	types, devices, repairs, err := c.loader.LoadAll(ctx)
	if err != nil {
		c.log.Error("catalog refresh failed", "err", err)
		return err
	}

	s := emptySnapshot()
	s.types = types
	for _, t := range types {
		s.typeNameByID[t.ID] = t.Name
		s.modelsByType[t.Name] = []string{}
	}
	for _, d := range devices {
		s.deviceByName[d.Name] = d
		s.deviceByID[d.ID] = d
		if tn, ok := s.typeNameByID[d.TypeID]; ok {
			s.modelsByType[tn] = append(s.modelsByType[tn], d.Name)
		}
	}
	for _, it := range repairs {
		s.repairsByDevice[it.DeviceID] = append(s.repairsByDevice[it.DeviceID], it)
	}

	c.snap.Store(s)
	c.log.Info("catalog refreshed", "types", len(types), "devices", len(devices), "repairs", len(repairs))
	return nil
}

// Types — имена типов устройств в порядке sort_order.
func (c *Cache) Types() []string {
	s := c.snap.Load()
	out := make([]string, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t.Name)
	}
	return out
}

func (c *Cache) TypeByName(name string) (DeviceType, bool) {
	s := c.snap.Load()
	for _, t := range s.types {
		if t.Name == name {
			return t, true
		}
	}
	return DeviceType{}, false
}

// ModelsForType — имена моделей типа, отсортированы по названию.
func (c *Cache) ModelsForType(typeName string) []string {
	return c.snap.Load().modelsByType[typeName]
}

func (c *Cache) DeviceByName(name string) (Device, bool) {
	d, ok := c.snap.Load().deviceByName[name]
	return d, ok
}

func (c *Cache) DeviceByID(id int64) (Device, bool) {
	d, ok := c.snap.Load().deviceByID[id]
	return d, ok
}

// TypeNameFor — имя типа устройства («Другое», если тип пропал из каталога).
func (c *Cache) TypeNameFor(d Device) string {
	if tn, ok := c.snap.Load().typeNameByID[d.TypeID]; ok {
		return tn
	}
	return "Другое"
}

// IssuesForDevice — названия работ устройства в стабильном порядке.
func (c *Cache) IssuesForDevice(id int64) []string {
	items := c.snap.Load().repairsByDevice[id]
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func (c *Cache) Repair(deviceID int64, title string) (RepairItem, bool) {
	for _, it := range c.snap.Load().repairsByDevice[deviceID] {
		if it.Title == title {
			return it, true
		}
	}
	return RepairItem{}, false
}
