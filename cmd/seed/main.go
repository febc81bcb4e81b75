package main

import (
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rentify/internal/config"
	"rentify/internal/db"
	"rentify/internal/logger"
	"rentify/internal/model"
	"rentify/internal/repository"
)

// Seeds an admin account plus a handful of agencies so a fresh environment
// is browsable immediately. Existing records are left untouched.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	defer db.Close(gormDB)

	if err := gormDB.AutoMigrate(&model.Account{}, &model.Agency{}, &model.Booking{}); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	ctx := context.Background()
	accounts := repository.NewAccountRepository(gormDB)
	agencies := repository.NewAgencyRepository(gormDB)

	adminPassword := getEnvDefault("ADMIN_PASSWORD", "admin-change-me")
	if err := seedAdmin(ctx, accounts, adminPassword); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}

	created, err := seedAgencies(ctx, gormDB, agencies)
	if err != nil {
		log.Fatal("seed agencies", zap.Error(err))
	}
	log.Info("seed complete", zap.Int("agencies_created", created))
}

func seedAdmin(ctx context.Context, accounts repository.AccountRepository, password string) error {
	taken, err := accounts.ExistsByUsernameOrEmail(ctx, "admin", "admin@rentify.local")
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return accounts.Create(ctx, &model.Account{
		Username:     "admin",
		Email:        "admin@rentify.local",
		Firstname:    "Admin",
		Lastname:     "Admin",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	})
}

func seedAgencies(ctx context.Context, gormDB *gorm.DB, agencies repository.AgencyRepository) (int, error) {
	samples := []model.Agency{
		{Name: "Downtown Wheels", Address: "12 Main St", Phone: "02-111-1111"},
		{Name: "Airport Express Rentals", Address: "1 Terminal Rd", Phone: "02-222-2222"},
		{Name: "Coastal Drive Co", Address: "88 Beach Ave", Phone: "02-333-3333"},
	}

	created := 0
	for i := range samples {
		var count int64
		if err := gormDB.WithContext(ctx).Model(&model.Agency{}).
			Where("name = ?", samples[i].Name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if err := agencies.Create(ctx, &samples[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
