package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portaria/internal/apperrs"
	"portaria/internal/auth"
	"portaria/internal/models"
)

// searchLimit caps every record query, newest first.
const searchLimit = 100

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrs.ErrNotFound
	}
	return id, nil
}

// NewRecordForm is the insert-form probe. Rendering is client-side; the
// route exists so the canInsert gate is checked before the form is shown.
func NewRecordForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func SaveRecord(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec := models.LogRecord{
			Destination:  r.PostFormValue("destino"),
			VisitType:    r.PostFormValue("tipo"),
			Company:      r.PostFormValue("empresa"),
			VisitorName:  r.PostFormValue("nome"),
			Document:     r.PostFormValue("rg"),
			Vehicle:      r.PostFormValue("veiculo"),
			Plate:        r.PostFormValue("placa"),
			Credential:   r.PostFormValue("cr"),
			EntryDate:    r.PostFormValue("data_entrada"),
			EntryTime:    r.PostFormValue("hora_entrada"),
			NoteNumber:   r.PostFormValue("n_nota"),
			Remarks:      r.PostFormValue("obs"),
			CreatedStamp: time.Now().Format(models.StampLayout),
			CreatedBy:    auth.Username(r.Context()),
		}
		if err := db.Create(&rec).Error; err != nil {
			lg.Errorw("record insert failed", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]any{"id": rec.ID})
	}
}

// SearchRecords applies the optional filters conjunctively, every value as a
// bound parameter. Unrecognized status values mean no status filter.
func SearchRecords(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := db.Model(&models.LogRecord{})
		if v := r.URL.Query().Get("empresa"); v != "" {
			q = q.Where("empresa LIKE ?", "%"+v+"%")
		}
		if v := r.URL.Query().Get("nome"); v != "" {
			q = q.Where("nome LIKE ?", "%"+v+"%")
		}
		if v := r.URL.Query().Get("placa"); v != "" {
			q = q.Where("placa LIKE ?", "%"+v+"%")
		}
		if v := r.URL.Query().Get("data_inicio"); v != "" {
			q = q.Where("data_entrada >= ?", v)
		}
		if v := r.URL.Query().Get("data_fim"); v != "" {
			q = q.Where("data_entrada <= ?", v)
		}
		switch r.URL.Query().Get("status") {
		case "dentro":
			q = q.Where("data_saida = '' OR data_saida IS NULL")
		case "saiu":
			q = q.Where("data_saida <> '' AND data_saida IS NOT NULL")
		}
		var recs []models.LogRecord
		if err := q.Order("id desc").Limit(searchLimit).Find(&recs).Error; err != nil {
			lg.Errorw("record search failed", "error", err)
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]any{"registros": recs, "total": len(recs)})
	}
}

// EditRecord returns one record for edit-form prefill.
func EditRecord(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := recordID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var rec models.LogRecord
		if err := db.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(w, apperrs.ErrNotFound)
				return
			}
			respondError(w, err)
			return
		}
		respondJSON(w, rec)
	}
}

// UpdateRecord rewrites every caller-editable field and re-stamps the
// modification audit columns. An id that matches no row is NotFound.
func UpdateRecord(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := recordID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		now := time.Now()
		vals := map[string]any{
			"destino":         r.PostFormValue("destino"),
			"tipo":            r.PostFormValue("tipo"),
			"empresa":         r.PostFormValue("empresa"),
			"nome":            r.PostFormValue("nome"),
			"rg":              r.PostFormValue("rg"),
			"veiculo":         r.PostFormValue("veiculo"),
			"placa":           r.PostFormValue("placa"),
			"cr":              r.PostFormValue("cr"),
			"data_entrada":    r.PostFormValue("data_entrada"),
			"data_saida":      r.PostFormValue("data_saida"),
			"hora_entrada":    r.PostFormValue("hora_entrada"),
			"hora_saida":      r.PostFormValue("hora_saida"),
			"n_nota":          r.PostFormValue("n_nota"),
			"obs":             r.PostFormValue("obs"),
			"periodoalterado": now.Format(models.StampLayout),
			"usuarioalterado": auth.Username(r.Context()),
			"data_alterada":   now.Format(models.DateLayout),
		}
		tx := db.Model(&models.LogRecord{}).Where("id = ?", id).Updates(vals)
		if tx.Error != nil {
			lg.Errorw("record update failed", "id", id, "error", tx.Error)
			respondError(w, tx.Error)
			return
		}
		if tx.RowsAffected == 0 {
			respondError(w, apperrs.ErrNotFound)
			return
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}

// RegisterExit stamps the exit date/time from the server clock. A record that
// already has an exit gets it overwritten with the current values.
func RegisterExit(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := recordID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		now := time.Now()
		vals := map[string]any{
			"data_saida":      now.Format(models.DateLayout),
			"hora_saida":      now.Format(models.TimeLayout),
			"periodoalterado": now.Format(models.StampLayout),
			"usuarioalterado": auth.Username(r.Context()),
			"data_alterada":   now.Format(models.DateLayout),
		}
		tx := db.Model(&models.LogRecord{}).Where("id = ?", id).Updates(vals)
		if tx.Error != nil {
			lg.Errorw("register exit failed", "id", id, "error", tx.Error)
			respondError(w, tx.Error)
			return
		}
		if tx.RowsAffected == 0 {
			respondError(w, apperrs.ErrNotFound)
			return
		}
		respondJSON(w, map[string]any{"data_saida": vals["data_saida"], "hora_saida": vals["hora_saida"]})
	}
}

func DeleteRecord(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := recordID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		tx := db.Delete(&models.LogRecord{}, id)
		if tx.Error != nil {
			lg.Errorw("record delete failed", "id", id, "error", tx.Error)
			respondError(w, tx.Error)
			return
		}
		if tx.RowsAffected == 0 {
			respondError(w, apperrs.ErrNotFound)
			return
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
