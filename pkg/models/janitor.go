package models

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
)

const lobbyJanitorTask = "lobbyJanitor"

// JanitorStore is the redis surface the janitor needs: a coarse lock so
// only one server instance runs the sweep, plus the sweep itself.
type JanitorStore interface {
	IsJanitorTaskLock(ctx context.Context, task string) bool
	LockJanitorTask(ctx context.Context, task string, duration time.Duration)
	UnlockJanitorTask(ctx context.Context, task string)
	CleanLobbyIndexes(ctx context.Context) error
}

// JanitorModel periodically prunes lobby index entries whose participant
// keys have expired, so abandoned requests do not accumulate.
type JanitorModel struct {
	app    *config.AppConfig
	rs     JanitorStore
	logger *logrus.Entry
	closed chan struct{}
}

func NewJanitorModel(app *config.AppConfig, rs JanitorStore, logger *logrus.Logger) *JanitorModel {
	return &JanitorModel{
		app:    app,
		rs:     rs,
		logger: logger.WithField("model", "janitor"),
		closed: make(chan struct{}),
	}
}

func (m *JanitorModel) Start() {
	go func() {
		ticker := time.NewTicker(m.app.LobbyInfo.JanitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.closed:
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *JanitorModel) Stop() {
	close(m.closed)
}

func (m *JanitorModel) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	if m.rs.IsJanitorTaskLock(ctx, lobbyJanitorTask) {
		return
	}
	m.rs.LockJanitorTask(ctx, lobbyJanitorTask, m.app.LobbyInfo.JanitorInterval)
	defer m.rs.UnlockJanitorTask(ctx, lobbyJanitorTask)

	if err := m.rs.CleanLobbyIndexes(ctx); err != nil {
		m.logger.WithError(err).Errorln("lobby index sweep failed")
	}
}
