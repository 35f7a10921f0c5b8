package bot

// modelsPerPage — столько моделей влезает на одну страницу клавиатуры.
const modelsPerPage = 12

// Page — одна страница списка. Start/End — границы среза исходного списка.
type Page struct {
	Index int
	Count int
	Start int
	End   int
}

// HasNav — нужны ли стрелки навигации.
func (p Page) HasNav() bool { return p.Count > 1 }

// Paginate считает страницу для списка из total элементов. Запрошенный номер
// зажимается в допустимые границы, на пустом списке — одна пустая страница.
func Paginate(total, perPage, requested int) Page {
	if perPage < 1 {
		perPage = 1
	}
	count := (total + perPage - 1) / perPage
	if count < 1 {
		count = 1
	}
	p := requested
	if p < 0 {
		p = 0
	}
	if p > count-1 {
		p = count - 1
	}
	start := p * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{Index: p, Count: count, Start: start, End: end}
}
