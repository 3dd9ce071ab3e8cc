// Package category нормализует категории услуг биллинга к фиксированному
// набору, по которому портал группирует каталог и заказанные услуги.
package category

import "regexp"

// Категории после нормализации.
const (
	VPN       = "vpn"
	Proxy     = "proxy"
	WebTariff = "web_tariff"
	Web       = "web"
	MySQL     = "mysql"
	Mail      = "mail"
	Hosting   = "hosting"
	Other     = "other"
)

var (
	proxyRe = regexp.MustCompile(`(?i)remna|remnawave|marzban|marz|mz`)
	vpnRe   = regexp.MustCompile(`(?i)^(vpn|wg|awg|vpn-wg|vpn-awg)$`)
)

var known = map[string]struct{}{
	WebTariff: {},
	Web:       {},
	MySQL:     {},
	Mail:      {},
	Hosting:   {},
}

// Order порядок категорий при выводе групп.
var Order = []string{VPN, Proxy, WebTariff, Web, MySQL, Mail, Hosting, Other}

// Labels отображаемые названия категорий.
var Labels = map[string]string{
	VPN:       "VPN",
	Proxy:     "Прокси",
	WebTariff: "Тарифы хостинга",
	Web:       "Web хостинг",
	MySQL:     "Базы данных",
	Mail:      "Почта",
	Hosting:   "Хостинг",
	Other:     "Прочее",
}

// Normalize приводит категорию услуги к одной из известных. Правила
// проверяются в этом порядке: панели прокси (remnawave, marzban и их
// сокращения) — proxy, точное совпадение с vpn/wg/awg — vpn, известные
// категории хостинга остаются как есть, всё остальное — other.
func Normalize(raw string) string {
	if proxyRe.MatchString(raw) {
		return Proxy
	}
	if vpnRe.MatchString(raw) {
		return VPN
	}
	if _, ok := known[raw]; ok {
		return raw
	}
	return Other
}

// Label возвращает отображаемое название категории, для неизвестной —
// саму строку.
func Label(cat string) string {
	if l, ok := Labels[cat]; ok {
		return l
	}
	return cat
}
