package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medx-platform/medx-api/internal/models"
	entitlement "github.com/medx-platform/medx-api/internal/services/entitlement"
)

func TestCanAccess_FreeContent(t *testing.T) {
	free := &models.ContentItem{ID: "c1", Level: 100, IsPremium: false}

	tests := []struct {
		name    string
		profile *models.User
	}{
		{name: "nil profile", profile: nil},
		{name: "student without premium", profile: &models.User{Role: models.RoleStudent}},
		{name: "student with premium", profile: &models.User{Role: models.RoleStudent, IsPremium: true}},
		{name: "admin", profile: &models.User{Role: models.RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, entitlement.CanAccess(free, tt.profile))
		})
	}
}

func TestCanAccess_PremiumContent(t *testing.T) {
	premium := &models.ContentItem{ID: "c2", Level: 100, IsPremium: true}

	assert.False(t, entitlement.CanAccess(premium, nil))
	assert.False(t, entitlement.CanAccess(premium, &models.User{Role: models.RoleStudent}))
	assert.False(t, entitlement.CanAccess(premium, &models.User{Role: models.RoleAdmin}))
	assert.True(t, entitlement.CanAccess(premium, &models.User{Role: models.RoleStudent, IsPremium: true}))
}

func TestCanAccess_NilContent(t *testing.T) {
	assert.False(t, entitlement.CanAccess(nil, &models.User{IsPremium: true}))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, entitlement.IsAdmin(nil))
	assert.False(t, entitlement.IsAdmin(&models.User{Role: models.RoleStudent}))
	assert.False(t, entitlement.IsAdmin(&models.User{Role: "moderator"}))
	assert.True(t, entitlement.IsAdmin(&models.User{Role: models.RoleAdmin}))
}
