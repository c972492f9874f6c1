package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portaria/internal/auth"
	"portaria/internal/httpserver/handlers"
	"portaria/internal/models"
)

func NewRouter(db *gorm.DB, store *auth.SessionStore, limiter *auth.LoginLimiter, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Get("/", handlers.Index(db, store, lg))
	r.Post("/login", handlers.Login(db, store, limiter, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.SessionAuth(store))
		protected.Get("/logout", handlers.Logout(store))
		protected.Get("/dashboard", handlers.Dashboard(db, lg))

		protected.Group(func(rr chi.Router) {
			rr.Use(auth.RequirePermission(db, models.PermInsert))
			rr.Get("/novo_registro", handlers.NewRecordForm())
			rr.Post("/salvar_registro", handlers.SaveRecord(db, lg))
		})
		protected.Group(func(rr chi.Router) {
			rr.Use(auth.RequirePermission(db, models.PermQuery))
			rr.Get("/consultar", handlers.SearchRecords(db, lg))
		})
		protected.Group(func(rr chi.Router) {
			rr.Use(auth.RequirePermission(db, models.PermAlter))
			rr.Get("/editar_registro/{id}", handlers.EditRecord(db, lg))
			rr.Post("/atualizar_registro/{id}", handlers.UpdateRecord(db, lg))
			rr.Post("/registrar_saida/{id}", handlers.RegisterExit(db, lg))
		})
		protected.Group(func(rr chi.Router) {
			rr.Use(auth.RequirePermission(db, models.PermDelete))
			rr.Post("/excluir_registro/{id}", handlers.DeleteRecord(db, lg))
		})

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireAdmin)
			admin.Get("/admin", handlers.ListUsers(db, lg))
			admin.Post("/admin/usuario/novo", handlers.CreateUser(db, lg))
			admin.Post("/admin/usuario/{id}/atualizar", handlers.UpdateUser(db, lg))
			admin.Post("/admin/usuario/{id}/senha", handlers.ChangeUserPassword(db, lg))
			admin.Post("/admin/usuario/{id}/excluir", handlers.DeleteUser(db, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
