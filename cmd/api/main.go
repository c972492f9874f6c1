package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portaria/internal/auth"
	"portaria/internal/httpserver"
	"portaria/internal/logger"
	"portaria/internal/models"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "portaria.db"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		lg.Fatalw("db open failed", "path", path, "error", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.LogRecord{}); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedDefaultAdmin(db, lg)
	store := auth.NewSessionStore()
	limiter := auth.NewLoginLimiter(rate.Every(10*time.Second), 5)
	router := httpserver.NewRouter(db, store, limiter, lg)
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	lg.Infow("listening", "port", port, "database", path)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

// seedDefaultAdmin creates the ADMIN account on first boot so a fresh
// database is immediately usable. Bound to any address, full permissions.
func seedDefaultAdmin(db *gorm.DB, lg *zap.SugaredLogger) {
	var count int64
	db.Model(&models.Account{}).Where("username = ?", "ADMIN").Count(&count)
	if count > 0 {
		return
	}
	pw := os.Getenv("SEED_ADMIN_PASSWORD")
	if pw == "" {
		pw = "admin123"
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		lg.Errorw("seed hash failed", "error", err)
		return
	}
	acct := models.Account{
		Username:  "ADMIN",
		Password:  hash,
		BoundIP:   models.AnyAddress,
		IsAdmin:   true,
		CanInsert: true,
		CanAlter:  true,
		CanDelete: true,
		CanQuery:  true,
	}
	if err := db.Create(&acct).Error; err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "username", "ADMIN")
}
