// Импорт прайс-листа одной модели из xlsx: старые работы устройства
// удаляются, строки файла вставляются заново.
//
// Ожидаемые колонки: «Наименование», «Стандартная цена», «Описание»,
// «Гарантия», «Длительность (минуты)».
package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
	"github.com/xuri/excelize/v2"

	"github.com/remfix/repairbot/internal/config"
	"github.com/remfix/repairbot/internal/domain/catalog"
	"github.com/remfix/repairbot/internal/infra/db"
	"github.com/remfix/repairbot/internal/infra/logger"
)

func ask(rd *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// normalizeHeader чистит заголовки вида `="Наименование"`.
func normalizeHeader(s string) string {
	s = strings.ReplaceAll(s, `="`, "")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

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

func run() error {
	_ = gotenv.Load()
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Env)

	rd := bufio.NewReader(os.Stdin)
	deviceName, err := ask(rd, "Название модели (например, «iPhone 14»): ")
	if err != nil {
		return err
	}
	if deviceName == "" {
		return fmt.Errorf("название модели обязательно")
	}
	path, err := ask(rd, "Путь к xlsx-файлу: ")
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("в файле нет строк с работами")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[normalizeHeader(h)] = i
	}
	titleIdx, ok := col["Наименование"]
	if !ok {
		return fmt.Errorf("не найдена колонка «Наименование»")
	}
	priceIdx, ok := col["Стандартная цена"]
	if !ok {
		return fmt.Errorf("не найдена колонка «Стандартная цена»")
	}

	cell := func(row []string, idx int, ok bool) string {
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	descIdx, hasDesc := col["Описание"]
	warrIdx, hasWarr := col["Гарантия"]
	timeIdx, hasTime := col["Длительность (минуты)"]

	var items []catalog.RepairItem
	for i, row := range rows[1:] {
		title := strings.TrimSpace(cell(row, titleIdx, true))
		price, priceOK := parsePrice(cell(row, priceIdx, true))
		if title == "" || !priceOK {
			log.Warn("строка пропущена", "row", i+2)
			continue
		}
		items = append(items, catalog.RepairItem{
			Title:       title,
			Price:       price,
			Description: strings.TrimSpace(cell(row, descIdx, hasDesc)),
			Warranty:    optional(cell(row, warrIdx, hasWarr)),
			WorkTime:    optional(cell(row, timeIdx, hasTime)),
		})
	}
	if len(items) == 0 {
		return fmt.Errorf("в файле не нашлось ни одной валидной работы")
	}
	log.Info("файл разобран", "rows", len(items))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := catalog.NewRepo(pool)
	_, devices, _, err := repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	var deviceID int64
	for _, d := range devices {
		if d.Name == deviceName {
			deviceID = d.ID
			break
		}
	}
	if deviceID == 0 {
		return fmt.Errorf("модель «%s» не найдена в каталоге — сначала добавь её через бота", deviceName)
	}

	if err := repo.DeleteRepairsForDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("delete old repairs: %w", err)
	}
	for _, it := range items {
		it.DeviceID = deviceID
		if err := repo.InsertRepair(ctx, it); err != nil {
			return fmt.Errorf("insert %q: %w", it.Title, err)
		}
	}

	log.Info("импорт завершён", "device", deviceName, "repairs", len(items))
	fmt.Printf("Импортировано %d работ для «%s». Выполни /reload в боте.\n", len(items), deviceName)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
