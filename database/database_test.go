package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"timesheets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:database_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedDefaultAdmin(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, seedDefaultAdmin(db))

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@localhost", admin.Email)
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	// Idempotent: a second run creates nothing.
	require.NoError(t, seedDefaultAdmin(db))
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedDefaultAdminSkippedWhenAdminExists(t *testing.T) {
	db := openTestDB(t)

	existing := models.User{
		Name:         "Existing Admin",
		Email:        "boss@example.com",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&existing).Error)

	require.NoError(t, seedDefaultAdmin(db))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedSampleData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, seedSampleData(db))
	require.NoError(t, seedSampleData(db))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(2), users)

	var projects int64
	db.Model(&models.Project{}).Count(&projects)
	assert.Equal(t, int64(2), projects)

	var sup models.User
	require.NoError(t, db.Where("email = ?", "supervisor@localhost").First(&sup).Error)
	assert.Equal(t, models.RoleSupervisor, sup.Role)
}
