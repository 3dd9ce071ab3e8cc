// Package models содержит структуры данных, которыми портал обменивается
// с биллинговым API SHM. Портал не хранит собственных сущностей: все типы —
// снимки ответов бэкенда, JSON-теги повторяют имена полей протокола SHM.
package models

// User профиль пользователя биллинга. Баланс и бонусы — проекция серверных
// данных, портал их никогда не вычисляет сам.
type User struct {
	UserID   int     `json:"user_id"`
	Login    string  `json:"login"`
	FullName string  `json:"full_name,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Balance  float64 `json:"balance"`
	Bonus    float64 `json:"bonus,omitempty"`
	Credit   float64 `json:"credit,omitempty"`
	Discount float64 `json:"discount,omitempty"`
	GID      int     `json:"gid,omitempty"`
}

// OrderableService позиция каталога, доступная для заказа.
type OrderableService struct {
	ServiceID int     `json:"service_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Cost      float64 `json:"cost"`
	Period    int     `json:"period"`
	Descr     string  `json:"descr,omitempty"`
}

// ServiceInfo краткие сведения об услуге внутри заказанной услуги пользователя.
type ServiceInfo struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
}

// UserService заказанная услуга пользователя. Parent ссылается на
// user_service_id корневой услуги, дерево одноуровневое.
type UserService struct {
	UserServiceID int           `json:"user_service_id"`
	ServiceID     int           `json:"service_id"`
	Name          string        `json:"name,omitempty"`
	Service       ServiceInfo   `json:"service"`
	Status        string        `json:"status"`
	Expire        string        `json:"expire,omitempty"`
	Created       string        `json:"created"`
	Parent        int           `json:"parent,omitempty"`
	Children      []UserService `json:"children,omitempty"`
}

// Статусы услуг — закрытое множество, задаётся бэкендом.
const (
	StatusActive   = "ACTIVE"
	StatusNotPaid  = "NOT PAID"
	StatusBlock    = "BLOCK"
	StatusProgress = "PROGRESS"
	StatusError    = "ERROR"
	StatusInit     = "INIT"
)

// PaySystem платёжная система. ShmURL — шаблон ссылки на оплату, к которому
// дописывается сумма. AllowDelete помечает сохранённый способ автоплатежа.
type PaySystem struct {
	Name        string `json:"name"`
	ShmURL      string `json:"shm_url"`
	Recurring   bool   `json:"recurring,omitempty"`
	AllowDelete bool   `json:"allow_delete,omitempty"`
}

// Payment строка истории платежей, только для отображения.
type Payment struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Money       float64 `json:"money"`
	PaySystemID string  `json:"pay_system_id,omitempty"`
}

// Withdraw строка истории списаний, только для отображения.
type Withdraw struct {
	WithdrawID    int     `json:"withdraw_id"`
	UserServiceID int     `json:"user_service_id"`
	ServiceID     int     `json:"service_id"`
	Cost          float64 `json:"cost"`
	Total         float64 `json:"total"`
	Discount      float64 `json:"discount"`
	Bonus         float64 `json:"bonus"`
	Months        int     `json:"months"`
	Qnt           int     `json:"qnt"`
	CreateDate    string  `json:"create_date"`
	WithdrawDate  string  `json:"withdraw_date"`
	EndDate       string  `json:"end_date"`
}

// Forecast прогноз предстоящих списаний, считается бэкендом.
type Forecast struct {
	Total    float64        `json:"total"`
	Balance  float64        `json:"balance"`
	Bonuses  float64        `json:"bonuses,omitempty"`
	Items    []ForecastItem `json:"items,omitempty"`
}

// ForecastItem позиция прогноза по конкретной услуге.
type ForecastItem struct {
	Name   string  `json:"name"`
	Total  float64 `json:"total"`
	Expire string  `json:"expire,omitempty"`
}

// TelegramSettings привязка аккаунта к Telegram.
type TelegramSettings struct {
	Username string `json:"username,omitempty"`
	ChatID   int64  `json:"chat_id,omitempty"`
}

// TelegramWidgetAuth подписанные данные Telegram Login Widget, пересылаются
// бэкенду для проверки подписи как есть.
type TelegramWidgetAuth struct {
	ID        int64  `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date" validate:"required"`
	Hash      string `json:"hash" validate:"required"`
}
