package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "retifica/http-server/admin/get"
	saveadmin "retifica/http-server/admin/save"
	upadmin "retifica/http-server/admin/update"
	getclients "retifica/http-server/clients/get"
	saveclients "retifica/http-server/clients/save"
	getdashboard "retifica/http-server/dashboard/get"
	generate_excel "retifica/http-server/generate-report/generate-excel"
	getmotors "retifica/http-server/motors/get"
	savemotors "retifica/http-server/motors/save"
	deleteorder "retifica/http-server/orders/delete"
	getorders "retifica/http-server/orders/get"
	saveorders "retifica/http-server/orders/save"
	uporders "retifica/http-server/orders/update"
	gettimers "retifica/http-server/timers/get"
	"retifica/http-server/timers/stream"
	uptimers "retifica/http-server/timers/update"
	"retifica/http-server/transfer/download"
	"retifica/http-server/transfer/upload"
	getworkers "retifica/http-server/workers/get"
	upworkers "retifica/http-server/workers/update"
	"retifica/internal/config"
	"retifica/internal/middleware/auth"
	"retifica/internal/storage/mysql"
)

const frontendDir = "./frontend-dist"

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Ордера и этапы
	router.Get("/api/orders", getorders.GetOrders(log, svc.orders))
	router.Get("/api/orders/{id}", getorders.GetOrder(log, svc.orders))
	router.Post("/api/orders", saveorders.CreateOrder(log, svc.orders))
	router.Delete("/api/orders/{id}", deleteorder.DeleteOrder(log, svc.orders))

	router.Post("/api/orders/{id}/stages/start", uporders.StartStage(log, svc.orders))
	router.Post("/api/orders/{id}/stages/complete", uporders.CompleteStage(log, svc.orders))
	router.Post("/api/orders/{id}/stages/reopen", uporders.ReopenStage(log, svc.orders))
	router.Post("/api/orders/{id}/services/complete", uporders.CompleteService(log, svc.orders))
	router.Post("/api/orders/{id}/sub-activities/toggle", uporders.ToggleSubActivity(log, svc.orders))
	router.Post("/api/orders/{id}/status", uporders.SetStatus(log, svc.orders))

	// Справочники
	router.Get("/api/clients", getclients.GetClients(log, storage))
	router.Post("/api/clients", saveclients.SaveClient(log, storage))
	router.Get("/api/motors", getmotors.GetMotors(log, storage))
	router.Post("/api/motors", savemotors.SaveMotor(log, storage))
	router.Get("/api/catalog", getadmin.GetSubActivities(log, storage))
	router.Get("/api/service-config", getadmin.GetServiceConfig(log, storage))

	// Сотрудники
	router.Get("/api/employees", getworkers.GetWorkers(log, storage))
	router.Get("/api/employees/{id}", getworkers.GetWorker(log, storage))
	router.Put("/api/employees/{id}/status", upworkers.UpdateWorkerStatus(log, storage, svc.events))

	// Таймеры
	router.Get("/api/timers", gettimers.GetTimer(log, svc.timers))
	router.Delete("/api/timers", uptimers.ResetTimer(log, svc.timers))
	router.Post("/api/timers/start", uptimers.StartTimer(log, svc.timers))
	router.Post("/api/timers/pause", uptimers.PauseTimer(log, svc.timers))
	router.Post("/api/timers/resume", uptimers.ResumeTimer(log, svc.timers))
	router.Post("/api/timers/finish", uptimers.FinishTimer(log, svc.timers))
	router.Get("/api/timers/stream", stream.StreamTimer(log, stream.NewUpgrader(cfg.CORSOrigins), svc.ticker))

	// Отчёты, импорт и экспорт
	router.Get("/api/dashboard", getdashboard.GetDashboard(log, svc.dashboard))
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, svc.excel))
	router.Post("/api/import/clients", upload.ImportClients(log, svc.transfer))
	router.Post("/api/import/motors", upload.ImportMotors(log, svc.transfer))
	router.Get("/api/export/orders.csv", download.ExportOrdersCSV(log, storage))
	router.Get("/api/export/clients.csv", download.ExportClientsCSV(log, storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth("Admin Area", cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/employees", getadmin.GetAllEmployeesAdmin(log, storage))
	adminRouter.Post("/employees", saveadmin.SaveEmployeeAdmin(log, storage))
	adminRouter.Put("/employees", upadmin.UpdateEmployeesAdmin(log, storage))
	adminRouter.Get("/catalog", getadmin.GetSubActivities(log, storage))
	adminRouter.Post("/catalog", saveadmin.SaveSubActivityAdmin(log, storage))
	adminRouter.Get("/service-config", getadmin.GetServiceConfig(log, storage))
	adminRouter.Put("/service-config", upadmin.UpdateServiceConfigAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	// Статика, vue. Без собранного фронта работает только API
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("Папка фронтенда не найдена", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	//SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
