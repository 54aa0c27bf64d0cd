package helpers

import (
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
)

func HandleCloseConnections() error {
	if config.GetConfig() == nil {
		return nil
	}

	// handle to close DB connection
	db, err := config.GetConfig().ORM.DB()
	if err == nil {
		_ = db.Close()
	}

	// close redis
	_ = config.GetConfig().RDS.Close()

	// close nats
	if nc := config.GetConfig().NatsConn; nc != nil {
		nc.Close()
	}

	// close logger
	logrus.Exit(0)

	return nil
}
