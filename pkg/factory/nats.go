package factory

import (
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
)

func NewNatsConnection(appCnf *config.AppConfig) error {
	info := appCnf.NatsInfo

	nc, err := nats.Connect(strings.Join(info.NatsUrls, ","), nats.UserInfo(info.User, info.Password))
	if err != nil {
		return err
	}

	appCnf.Logger.WithFields(logrus.Fields{
		"version": nc.ConnectedServerVersion(),
		"address": nc.ConnectedAddr(),
	}).Info("successfully connected to NATS server")

	appCnf.NatsConn = nc
	return nil
}
