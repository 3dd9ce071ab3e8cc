// Package paginate режет уже загруженные списки на страницы. История платежей
// и списаний приходит из биллинга целиком, пагинация выполняется на стороне
// портала.
package paginate

// DefaultPerPage размер страницы по умолчанию для таблиц истории.
const DefaultPerPage = 10

// Slice возвращает границы страницы page (нумерация с 1) для списка длиной
// total и общее число страниц. Выход за последнюю страницу даёт пустой срез.
func Slice(total, page, perPage int) (lo, hi, pages int) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	pages = (total + perPage - 1) / perPage
	lo = (page - 1) * perPage
	if lo > total {
		lo = total
	}
	hi = lo + perPage
	if hi > total {
		hi = total
	}
	return lo, hi, pages
}
