package models

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	"github.com/meethub/meethub-server/pkg/utils"
)

type RoomStore interface {
	CreateRoom(room *dbmodels.Room) error
	GetRoomByID(roomID string) (*dbmodels.Room, error)
	GetRoomBySlug(slug string) (*dbmodels.Room, error)
}

// RoomCallbackCache relays the one-shot creation callback payload between
// the request that created the room and the client poll that collects it.
type RoomCallbackCache interface {
	StoreRoomCallbackState(ctx context.Context, callbackID string, payload []byte, ttl time.Duration) error
	GetRoomCallbackState(ctx context.Context, callbackID string) ([]byte, error)
}

type RoomModel struct {
	app    *config.AppConfig
	ds     RoomStore
	cache  RoomCallbackCache
	logger *logrus.Entry
}

func NewRoomModel(app *config.AppConfig, ds RoomStore, cache RoomCallbackCache, logger *logrus.Logger) *RoomModel {
	return &RoomModel{
		app:    app,
		ds:     ds,
		cache:  cache,
		logger: logger.WithField("model", "room"),
	}
}

type RoomCreatedState struct {
	RoomID  string `json:"room_id"`
	Slug    string `json:"slug"`
	Created int64  `json:"created"`
}

// CreateRoom registers a room under a slug derived from the supplied name
// and leaves a short-lived creation state behind for the caller to poll.
func (m *RoomModel) CreateRoom(ctx context.Context, name, ownerID string, isPublic bool) (*dbmodels.Room, error) {
	room := &dbmodels.Room{
		ID:       uuid.NewString(),
		Slug:     utils.Slugify(name),
		Name:     name,
		OwnerID:  ownerID,
		IsPublic: isPublic,
	}
	if err := m.ds.CreateRoom(room); err != nil {
		return nil, err
	}

	state, err := json.Marshal(&RoomCreatedState{
		RoomID:  room.ID,
		Slug:    room.Slug,
		Created: time.Now().Unix(),
	})
	if err == nil {
		err = m.cache.StoreRoomCallbackState(ctx, room.ID, state, *m.app.Client.TokenValidity)
	}
	if err != nil {
		// the room exists, the poll will just miss the relay state
		m.logger.WithError(err).Warnln("could not store room creation state")
	}

	m.logger.WithFields(logrus.Fields{
		"roomId": room.ID,
		"slug":   room.Slug,
	}).Infoln("room created")
	return room, nil
}

// GetRoom resolves a room by its id or by its slug. When unregistered rooms
// are allowed an unknown identifier yields an ephemeral public room instead
// of an error, which lets clients join ad-hoc rooms without registration.
func (m *RoomModel) GetRoom(ctx context.Context, idOrSlug string) (*dbmodels.Room, error) {
	var room *dbmodels.Room
	var err error

	if _, uuidErr := uuid.Parse(idOrSlug); uuidErr == nil {
		room, err = m.ds.GetRoomByID(idOrSlug)
	} else {
		room, err = m.ds.GetRoomBySlug(idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	if m.app.Client.AllowUnregisteredRooms {
		return &dbmodels.Room{
			ID:       idOrSlug,
			Slug:     idOrSlug,
			Name:     idOrSlug,
			IsPublic: true,
		}, nil
	}
	return nil, ErrRoomNotFound
}

// GetCallbackState returns the creation relay payload at most once.
func (m *RoomModel) GetCallbackState(ctx context.Context, roomID string) (*RoomCreatedState, error) {
	payload, err := m.cache.GetRoomCallbackState(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	state := new(RoomCreatedState)
	if err := json.Unmarshal(payload, state); err != nil {
		return nil, err
	}
	return state, nil
}
