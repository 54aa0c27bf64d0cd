package natsservice

import (
	"github.com/meethub/meethub-server/pkg/config"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type NatsService struct {
	app    *config.AppConfig
	nc     *nats.Conn
	logger *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *NatsService {
	return &NatsService{
		app:    app,
		nc:     app.NatsConn,
		logger: logger.WithField("service", "nats"),
	}
}
