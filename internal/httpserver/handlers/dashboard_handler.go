package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"portaria/internal/models"
)

// Dashboard returns today's entry count, how many visitors are still inside,
// and the ten most recent records.
func Dashboard(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := time.Now().Format(models.DateLayout)
		var todayCount, insideCount int64
		if err := db.Model(&models.LogRecord{}).Where("data_entrada = ?", today).
			Count(&todayCount).Error; err != nil {
			respondError(w, err)
			return
		}
		if err := db.Model(&models.LogRecord{}).
			Where("data_saida = '' OR data_saida IS NULL").
			Count(&insideCount).Error; err != nil {
			respondError(w, err)
			return
		}
		var recent []models.LogRecord
		if err := db.Order("id desc").Limit(10).Find(&recent).Error; err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]any{
			"registros_hoje":    todayCount,
			"veiculos_dentro":   insideCount,
			"ultimos_registros": recent,
		})
	}
}
