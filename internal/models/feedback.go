package models

import "time"

// Статусы отзывов.
const (
	FeedbackStatusNew      = "new"
	FeedbackStatusReviewed = "reviewed"
)

// FeedbackItem представляет отзыв пользователя. Отзыв может быть
// анонимным: UserUID и Email в этом случае равны nil.
type FeedbackItem struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
	Status      string    `json:"status"`
	UserUID     *string   `json:"user_uid,omitempty"`
	Email       *string   `json:"email,omitempty"`
}

// DummyFeedbackItem используется для приёма отзыва из JSON-запроса.
// Минимальная длина сообщения проверяется на этапе валидации.
type DummyFeedbackItem struct {
	Message string `json:"message" validate:"required,min=10"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// DummyFeedbackStatus используется для смены статуса отзыва администратором.
type DummyFeedbackStatus struct {
	Status string `json:"status" validate:"required,oneof=new reviewed"`
}
