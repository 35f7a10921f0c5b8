package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// LoadAll читает каталог целиком — из него собирается снапшот кэша.
func (r *Repo) LoadAll(ctx context.Context) ([]DeviceType, []Device, []RepairItem, error) {
	typeRows, err := r.pool.Query(ctx, `
		SELECT id, name, sort_order, created_at
		FROM device_types
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, nil, nil, err
	}
	defer typeRows.Close()
	var types []DeviceType
	for typeRows.Next() {
		var t DeviceType
		if err := typeRows.Scan(&t.ID, &t.Name, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, nil, nil, err
		}
		types = append(types, t)
	}
	if err := typeRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	devRows, err := r.pool.Query(ctx, `
		SELECT id, name, device_type_id, created_at
		FROM devices
		ORDER BY name
	`)
	if err != nil {
		return nil, nil, nil, err
	}
	defer devRows.Close()
	var devices []Device
	for devRows.Next() {
		var d Device
		if err := devRows.Scan(&d.ID, &d.Name, &d.TypeID, &d.CreatedAt); err != nil {
			return nil, nil, nil, err
		}
		devices = append(devices, d)
	}
	if err := devRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	// Порядок по id — стабильный порядок работ в списке неисправностей.
	repRows, err := r.pool.Query(ctx, `
		SELECT device_id, title, price, description, warranty, work_time
		FROM repairs
		ORDER BY id
	`)
	if err != nil {
		return nil, nil, nil, err
	}
	defer repRows.Close()
	var repairs []RepairItem
	for repRows.Next() {
		var it RepairItem
		if err := repRows.Scan(&it.DeviceID, &it.Title, &it.Price, &it.Description, &it.Warranty, &it.WorkTime); err != nil {
			return nil, nil, nil, err
		}
		repairs = append(repairs, it)
	}
	if err := repRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	return types, devices, repairs, nil
}

func (r *Repo) UpdatePrice(ctx context.Context, deviceID int64, title string, price int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE repairs SET price=$3, updated_at=now() WHERE device_id=$1 AND title=$2
	`, deviceID, title, price)
	return err
}

func (r *Repo) UpdateDescription(ctx context.Context, deviceID int64, title, description string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE repairs SET description=$3, updated_at=now() WHERE device_id=$1 AND title=$2
	`, deviceID, title, description)
	return err
}

func (r *Repo) UpdateWarranty(ctx context.Context, deviceID int64, title string, warranty *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE repairs SET warranty=$3, updated_at=now() WHERE device_id=$1 AND title=$2
	`, deviceID, title, warranty)
	return err
}

func (r *Repo) UpdateWorkTime(ctx context.Context, deviceID int64, title string, workTime *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE repairs SET work_time=$3, updated_at=now() WHERE device_id=$1 AND title=$2
	`, deviceID, title, workTime)
	return err
}

func (r *Repo) InsertRepair(ctx context.Context, it RepairItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO repairs (device_id, title, price, description, warranty, work_time)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, it.DeviceID, it.Title, it.Price, it.Description, it.Warranty, it.WorkTime)
	return err
}

func (r *Repo) DeleteRepair(ctx context.Context, deviceID int64, title string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM repairs WHERE device_id=$1 AND title=$2
	`, deviceID, title)
	return err
}

func (r *Repo) DeleteRepairsForDevice(ctx context.Context, deviceID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM repairs WHERE device_id=$1`, deviceID)
	return err
}

// InsertDeviceType сообщает, появилась ли строка: при конфликте имён
// вставка молча не происходит, и об этом надо сказать админу.
func (r *Repo) InsertDeviceType(ctx context.Context, name string, sortOrder int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO device_types (name, sort_order) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
	`, name, sortOrder)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) InsertDevice(ctx context.Context, name string, typeID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO devices (name, device_type_id) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
	`, name, typeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
