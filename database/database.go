package database

import (
	"fmt"

	"timesheets/config"
	"timesheets/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg config.Config) error {
	dialector, err := openDialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if err := seedDefaultAdmin(DB); err != nil {
		return err
	}

	if cfg.SeedSampleData {
		if err := seedSampleData(DB); err != nil {
			return err
		}
	}

	return nil
}

func openDialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres":
		return postgres.Open(cfg.DatabaseURL), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Timesheet{},
		&models.SupervisorProject{},
	)
}

func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Admin User",
		Email:        "admin@localhost",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		HourlyRate:   0,
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", admin.Email).Info("default admin user created")
	return nil
}

// seedSampleData provisions a supervisor, an operative and two projects so a
// fresh install has something to click on.
func seedSampleData(db *gorm.DB) error {
	users := []struct {
		name, email, password string
		role                  models.Role
		rate                  float64
	}{
		{"Site Supervisor", "supervisor@localhost", "supervisor123", models.RoleSupervisor, 0},
		{"John Smith", "john.smith@localhost", "operative123", models.RoleOperative, 22.5},
	}
	for _, u := range users {
		var count int64
		db.Model(&models.User{}).Where("email = ?", u.email).Count(&count)
		if count > 0 {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hashed),
			Role:         u.role,
			HourlyRate:   u.rate,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		logrus.WithField("email", user.Email).Info("sample user created")
	}

	projects := []models.Project{
		{Name: "Trundleys Road", Location: "Deptford, London", IsActive: true},
		{Name: "General Maintenance", Location: "Various", IsActive: true},
	}
	for _, p := range projects {
		var count int64
		db.Model(&models.Project{}).Where("name = ?", p.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
		logrus.WithField("project", p.Name).Info("sample project created")
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}
