//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/google/wire"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/controllers"
	"github.com/meethub/meethub-server/pkg/helpers"
	"github.com/meethub/meethub-server/pkg/models"
	dbservice "github.com/meethub/meethub-server/pkg/services/db"
	livekitservice "github.com/meethub/meethub-server/pkg/services/livekit"
	natsservice "github.com/meethub/meethub-server/pkg/services/nats"
	redisservice "github.com/meethub/meethub-server/pkg/services/redis"
	storageservice "github.com/meethub/meethub-server/pkg/services/storage"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	dbservice.New,
	redisservice.New,
	natsservice.New,
	livekitservice.New,
	storageservice.New,
)

// build the dependency set for helpers
var helperSet = wire.NewSet(
	helpers.NewWebhookNotifier,
)

// build the dependency set for models
var modelSet = wire.NewSet(
	provideWorkerRegistry,
	provideStorageEventParser,
	models.NewRecorderModel,
	models.NewRecordingModel,
	models.NewRoomModel,
	models.NewLobbyModel,
	models.NewJanitorModel,
	models.NewStorageEventModel,
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewRoomController,
	controllers.NewRecordingController,
	controllers.NewStorageWebhookController,
)

// bind the narrow store interfaces the models accept to the services
var bindSet = wire.NewSet(
	wire.Bind(new(models.RecordingStatusStore), new(*dbservice.DatabaseService)),
	wire.Bind(new(models.RecordingStore), new(*dbservice.DatabaseService)),
	wire.Bind(new(models.StorageEventStore), new(*dbservice.DatabaseService)),
	wire.Bind(new(models.RoomStore), new(*dbservice.DatabaseService)),
	wire.Bind(new(models.ArtifactStore), new(*storageservice.StorageService)),
	wire.Bind(new(models.RoomCallbackCache), new(*redisservice.RedisService)),
	wire.Bind(new(models.LobbyStore), new(*redisservice.RedisService)),
	wire.Bind(new(models.JanitorStore), new(*redisservice.RedisService)),
	wire.Bind(new(models.MediaTokenIssuer), new(*livekitservice.LivekitService)),
	wire.Bind(new(models.RoomLookup), new(*models.RoomModel)),
	wire.Bind(new(models.NotificationDispatcher), new(*helpers.WebhookNotifier)),
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		helperSet,
		modelSet,
		controllerSet,
		bindSet,
		wire.FieldsOf(new(*config.AppConfig), "ORM", "RDS", "Logger"),

		wire.Struct(new(ApplicationControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
