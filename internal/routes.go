package internal

import (
	"net/http"

	"lipid/internal/controllers"
	"lipid/internal/providers"
	"lipid/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/login", http.HandlerFunc(apiController.Login))
	routers.Post("/logout", http.HandlerFunc(apiController.Logout))
	routers.Get("/session", http.HandlerFunc(apiController.GetSession))
	routers.Post("/view", http.HandlerFunc(apiController.SetView))

	routers.Post("/chat", http.HandlerFunc(apiController.SendChat))
	routers.Get("/chat", http.HandlerFunc(apiController.GetChat))
	routers.Post("/chat/reset", http.HandlerFunc(apiController.ResetChat))
	routers.Get("/chat/export", http.HandlerFunc(apiController.ExportChat))

	routers.Post("/art", http.HandlerFunc(apiController.GenerateArt))
	routers.Get("/art", http.HandlerFunc(apiController.GetArt))
	routers.Post("/art/clear", http.HandlerFunc(apiController.ClearArt))

	routers.Get("/notes", http.HandlerFunc(apiController.GetNotes))
	routers.Post("/notes", http.HandlerFunc(apiController.AddNote))
	routers.Post("/notes/delete", http.HandlerFunc(apiController.DeleteNote))

	routers.Get("/search", http.HandlerFunc(apiController.Search))
	routers.Post("/purge", http.HandlerFunc(apiController.Purge))
	routers.Post("/speech/wav", http.HandlerFunc(apiController.FrameSpeech))

	routers.Get("/admin/config", http.HandlerFunc(adminController.GetConfig))
	routers.Post("/admin/config", http.HandlerFunc(adminController.SaveConfig))
	routers.Get("/admin/logs", http.HandlerFunc(adminController.GetLogs))
	routers.Post("/admin/logs/clear", http.HandlerFunc(adminController.ClearLogs))
	routers.Get("/admin/logs/export", http.HandlerFunc(adminController.ExportLogs))

	return routers
}
