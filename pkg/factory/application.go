package factory

import (
	"context"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/controllers"
	"github.com/meethub/meethub-server/pkg/helpers"
	"github.com/meethub/meethub-server/pkg/models"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	RoomController           *controllers.RoomController
	RecordingController      *controllers.RecordingController
	StorageWebhookController *controllers.StorageWebhookController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers  *ApplicationControllers
	AppConfig    *config.AppConfig
	Ctx          context.Context
	janitorModel *models.JanitorModel
	notifier     *helpers.WebhookNotifier
}

func (a *Application) Boot() {
	a.janitorModel.Start()
}

func (a *Application) Shutdown() {
	a.janitorModel.Stop()
	a.notifier.Stop()
}
