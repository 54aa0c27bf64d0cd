package routers

import (
	"io"
	"runtime"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/controllers"
	"github.com/meethub/meethub-server/pkg/factory"
	"github.com/meethub/meethub-server/version"
)

// router holds the dependencies for route registration so the setup can be
// split into small methods instead of one monolithic New().
type router struct {
	app  *fiber.App
	ctrl *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		AppName:     "meethub version: " + version.Version + " runtime: " + runtime.Version(),
	}
	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("meethub")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,DELETE,OPTIONS",
	}))

	r := &router{
		app:  app,
		ctrl: ctrl,
	}

	r.registerBaseRoutes()
	r.registerAPIRoutes()

	// must stay the last registered middleware
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", controllers.HandleHealthCheck)
	r.app.Post("/webhooks/storage", r.ctrl.StorageWebhookController.HandleStorageWebhook)
}

func (r *router) registerAPIRoutes() {
	api := r.app.Group("/api/v1")

	// unauthenticated: lobby entry and the creation-callback poll
	api.Post("/rooms/creation-callback", r.ctrl.RoomController.HandleCreationCallback)
	api.Post("/rooms/:roomId/request-entry", r.ctrl.RoomController.HandleRequestEntry)
	api.Get("/rooms/:roomId", r.ctrl.RoomController.HandleGetRoom)

	protected := api.Group("", controllers.HandleAuthHeaderCheck)
	protected.Post("/rooms", r.ctrl.RoomController.HandleCreateRoom)
	protected.Post("/rooms/:roomId/start-recording", r.ctrl.RecordingController.HandleStartRecording)
	protected.Post("/rooms/:roomId/stop-recording", r.ctrl.RecordingController.HandleStopRecording)
	protected.Get("/rooms/:roomId/waiting-participants", r.ctrl.RoomController.HandleWaitingParticipants)
	protected.Post("/rooms/:roomId/enter", r.ctrl.RoomController.HandleParticipantEntry)
	protected.Get("/recordings", r.ctrl.RecordingController.HandleFetchRecordings)
	protected.Delete("/recordings/:recordId", r.ctrl.RecordingController.HandleDeleteRecording)
	protected.Get("/recordings/:recordId/download", r.ctrl.RecordingController.HandleDownloadRecording)
}
