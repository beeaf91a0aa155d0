//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"lipid/internal"
	"lipid/internal/controllers"
	"lipid/internal/providers"
	"lipid/internal/services"
	"lipid/internal/store"
	"lipid/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewMemStore,
		wire.Bind(new(store.StoreInterface), new(*store.MemStore)),
		wire.Bind(new(providers.KeyCounter), new(*store.MemStore)),
		store.NewZstdCompressor,
		store.NewFileManager,
		store.NewScheduler,

		services.NewHistoryService,
		services.NewSessionService,
		services.NewSearchService,
		services.NewAuditService,
		services.NewMentorService,

		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
