package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	redisservice "github.com/meethub/meethub-server/pkg/services/redis"
)

// LobbyStore is the ephemeral state the lobby keeps per waiting participant.
type LobbyStore interface {
	StoreWaitingParticipant(ctx context.Context, p *redisservice.WaitingParticipant, ttl time.Duration) error
	GetWaitingParticipant(ctx context.Context, roomID, participantID string) (*redisservice.WaitingParticipant, error)
	ListWaitingParticipants(ctx context.Context, roomID string) ([]*redisservice.WaitingParticipant, error)
	DecideWaitingParticipant(ctx context.Context, roomID, participantID, status string) (bool, error)
}

// MediaTokenIssuer mints join tokens for the media backend.
type MediaTokenIssuer interface {
	GenerateToken(roomID, identity, name string) (string, error)
}

type RoomLookup interface {
	GetRoom(ctx context.Context, idOrSlug string) (*dbmodels.Room, error)
}

type LobbyModel struct {
	app    *config.AppConfig
	store  LobbyStore
	rooms  RoomLookup
	tokens MediaTokenIssuer
	cookie *LobbyCookieSigner
	logger *logrus.Entry
}

func NewLobbyModel(app *config.AppConfig, store LobbyStore, rooms RoomLookup, tokens MediaTokenIssuer, logger *logrus.Logger) *LobbyModel {
	return &LobbyModel{
		app:    app,
		store:  store,
		rooms:  rooms,
		tokens: tokens,
		cookie: NewLobbyCookieSigner(app.LobbyInfo.CookieSecret, app.LobbyInfo.WaitTimeout),
		logger: logger.WithField("model", "lobby"),
	}
}

type EntryRequest struct {
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	// Cookie carries the correlation token from a previous request so a
	// status poll maps back to the same participant.
	Cookie string `json:"-"`
}

type EntryResponse struct {
	ParticipantID string `json:"participant_id"`
	Status        string `json:"status"`
	// Cookie is set on the first request only.
	Cookie string `json:"-"`
	// MediaToken is issued once the participant has been accepted, or
	// immediately for public rooms.
	MediaToken string `json:"media_token,omitempty"`
}

// RequestEntry places an unauthenticated requester into the room lobby, or
// reports the decision state when the request carries a valid cookie from an
// earlier call. Public rooms bypass the lobby entirely.
func (m *LobbyModel) RequestEntry(ctx context.Context, roomID string, req *EntryRequest) (*EntryResponse, error) {
	room, err := m.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.IsPublic {
		token, err := m.tokens.GenerateToken(room.ID, "", req.DisplayName)
		if err != nil {
			return nil, err
		}
		return &EntryResponse{
			Status:     redisservice.ParticipantStatusAccepted,
			MediaToken: token,
		}, nil
	}

	if req.Cookie != "" {
		if res, err := m.pollEntry(ctx, room, req.Cookie); err == nil {
			return res, nil
		}
		// fall through and treat an unusable cookie as a fresh request
	}

	if req.DisplayName == "" || len(req.DisplayName) > config.MaxLobbyDisplayNameLength {
		return nil, ErrInvalidEntryRequest
	}

	p := &redisservice.WaitingParticipant{
		ID:          uuid.NewString(),
		RoomID:      room.ID,
		DisplayName: req.DisplayName,
		Metadata:    req.Metadata,
		Status:      redisservice.ParticipantStatusPending,
		EnteredAt:   time.Now().UnixMilli(),
	}
	if err := m.store.StoreWaitingParticipant(ctx, p, m.app.LobbyInfo.WaitTimeout); err != nil {
		return nil, err
	}

	cookie, err := m.cookie.Sign(room.ID, p.ID)
	if err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"roomId":        room.ID,
		"participantId": p.ID,
	}).Infoln("participant waiting in lobby")

	return &EntryResponse{
		ParticipantID: p.ID,
		Status:        p.Status,
		Cookie:        cookie,
	}, nil
}

func (m *LobbyModel) pollEntry(ctx context.Context, room *dbmodels.Room, cookie string) (*EntryResponse, error) {
	participantID, err := m.cookie.Verify(cookie, room.ID)
	if err != nil {
		return nil, err
	}

	p, err := m.store.GetWaitingParticipant(ctx, room.ID, participantID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// expired without a decision, same as denied
		return nil, ErrLobbyParticipantNotFound
	}

	res := &EntryResponse{
		ParticipantID: p.ID,
		Status:        p.Status,
	}
	if p.Status == redisservice.ParticipantStatusAccepted {
		token, err := m.tokens.GenerateToken(room.ID, p.ID, p.DisplayName)
		if err != nil {
			return nil, err
		}
		res.MediaToken = token
	}
	return res, nil
}

// ListWaitingParticipants returns pending entrants ordered by arrival. Public
// rooms have no lobby, the list is empty rather than an error.
func (m *LobbyModel) ListWaitingParticipants(ctx context.Context, roomID string) ([]*redisservice.WaitingParticipant, error) {
	room, err := m.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.IsPublic {
		return []*redisservice.WaitingParticipant{}, nil
	}
	return m.store.ListWaitingParticipants(ctx, room.ID)
}

// HandleParticipantEntry applies an accept or deny decision. Exactly one
// caller can win the decision, a duplicate or late call gets
// ErrLobbyParticipantNotFound just like an unknown participant id.
func (m *LobbyModel) HandleParticipantEntry(ctx context.Context, roomID, participantID string, accept bool) error {
	room, err := m.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.IsPublic {
		return ErrRoomHasNoLobby
	}

	status := redisservice.ParticipantStatusDenied
	if accept {
		status = redisservice.ParticipantStatusAccepted
	}

	won, err := m.store.DecideWaitingParticipant(ctx, room.ID, participantID, status)
	if err != nil {
		return err
	}
	if !won {
		return ErrLobbyParticipantNotFound
	}

	m.logger.WithFields(logrus.Fields{
		"roomId":        room.ID,
		"participantId": participantID,
		"status":        status,
	}).Infoln("lobby decision applied")
	return nil
}
