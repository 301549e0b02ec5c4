// Package models содержит доменные структуры платформы MED-X:
// пользователей, учебные материалы, отзывы и типы для AI-квизов,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "time"

// Роли пользователей. Других ролей система не поддерживает.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User представляет профиль пользователя платформы.
// Поле SubscriptionExpiry не равно nil только пока IsPremium == true:
// при истечении срока подписка снимается, а поле обнуляется.
type User struct {
	UID                string     `json:"uid"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	DisplayName        string     `json:"display_name"`
	PasswordHash       string     `json:"-"`
	Role               string     `json:"role"`
	IsPremium          bool       `json:"is_premium"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
}

// DummyRegisterUser используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterUser struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyLoginUser используется для приёма данных входа из JSON-запроса.
type DummyLoginUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyUpdateAccount используется для приёма нового отображаемого имени
// из JSON-запроса.
type DummyUpdateAccount struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
}

// UserNotification — сообщение для очереди уведомлений об окончании
// premium-подписки. EventID уникален для каждой публикации и попадает
// в логи отправителя и получателя, связывая доставку с конкретным проходом
// уборки.
type UserNotification struct {
	EventID  string `json:"event_id"`
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
