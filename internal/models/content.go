package models

import (
	"fmt"
	"time"
)

// Уровни учебных материалов. Набор фиксирован.
const (
	Level100 = 100
	Level200 = 200
)

// ContentItem представляет учебный материал (e-book).
// Материал находится ровно в одной партиции уровень+тариф;
// перенос между тарифами выполняется как запись в целевую партицию
// с последующим удалением из исходной.
type ContentItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Author         string    `json:"author"`
	Level          int       `json:"level"`
	IsPremium      bool      `json:"is_premium"`
	FilePath       string    `json:"file_path"`
	Downloads      int64     `json:"downloads"`
	CreatorUID     string    `json:"creator_uid"`
	UploadDate     time.Time `json:"upload_date"`
	LastUpdateDate time.Time `json:"last_update_date"`
}

// PartitionKey возвращает имя партиции материала, например "level-100-free".
func (c ContentItem) PartitionKey() string {
	return PartitionKey(c.Level, c.IsPremium)
}

// PartitionKey строит имя партиции по уровню и тарифу.
func PartitionKey(level int, premium bool) string {
	tier := "free"
	if premium {
		tier = "premium"
	}
	return fmt.Sprintf("level-%d-%s", level, tier)
}

// DummyContentItem используется для приёма нового материала из JSON-запроса.
type DummyContentItem struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Author      string `json:"author" validate:"required"`
	Level       int    `json:"level" validate:"required,oneof=100 200"`
	IsPremium   bool   `json:"is_premium"`
	FilePath    string `json:"file_path" validate:"required,uri"`
}
