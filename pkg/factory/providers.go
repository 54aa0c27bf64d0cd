package factory

import (
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/models"
	livekitservice "github.com/meethub/meethub-server/pkg/services/livekit"
	natsservice "github.com/meethub/meethub-server/pkg/services/nats"
)

// provideWorkerRegistry maps each recording mode to its backend adapter.
func provideWorkerRegistry(lk *livekitservice.LivekitService, ns *natsservice.NatsService, logger *logrus.Logger) *models.WorkerRegistry {
	registry := models.NewWorkerRegistry()
	registry.Register(config.RecordingModeAudio, models.NewEgressWorker(lk, logger))
	registry.Register(config.RecordingModeVideo, models.NewRecorderWorker(ns, lk, logger))
	return registry
}

// provideStorageEventParser resolves the configured provider once at startup.
func provideStorageEventParser(appCnf *config.AppConfig) (models.StorageEventParser, error) {
	return models.GetParser(&appCnf.StorageInfo)
}
