// Package services содержит правила доступа к контенту и админ-функциям.
//
// Функции чистые и не имеют побочных эффектов: решение принимается только
// по переданному профилю. Отсутствующий профиль (не загружен или пользователь
// не вошёл) трактуется как отсутствие прав — доступ по умолчанию запрещён.
package services

import (
	"github.com/medx-platform/medx-api/internal/models"
)

// CanAccess сообщает, доступен ли материал пользователю.
// Бесплатный материал доступен всем, включая анонимных посетителей.
// Premium-материал доступен только пользователю с действующей подпиской.
func CanAccess(content *models.ContentItem, profile *models.User) bool {
	if content == nil {
		return false
	}
	if !content.IsPremium {
		return true
	}
	return profile != nil && profile.IsPremium
}

// IsAdmin сообщает, является ли пользователь администратором.
func IsAdmin(profile *models.User) bool {
	return profile != nil && profile.Role == models.RoleAdmin
}
