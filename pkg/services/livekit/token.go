package livekitservice

import (
	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
)

// GenerateToken builds a media access token for a participant of the room.
// Anonymous callers get a random identity.
func (s *LivekitService) GenerateToken(roomID, identity, name string) (string, error) {
	if identity == "" {
		identity = uuid.New().String()
	}

	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomID,
		CanPublishSources: []string{
			"camera",
			"microphone",
			"screen_share",
			"screen_share_audio",
		},
	}

	at := auth.NewAccessToken(s.app.LivekitInfo.ApiKey, s.app.LivekitInfo.Secret).
		SetVideoGrant(grant).
		SetIdentity(identity).
		SetValidFor(*s.app.Client.TokenValidity)
	if name != "" {
		at.SetName(name)
	}

	return at.ToJWT()
}

// GenerateHiddenBotToken issues a token for a recorder bot joining a room
// without being visible to other participants.
func (s *LivekitService) GenerateHiddenBotToken(roomID, identity string) (string, error) {
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomID,
		Hidden:   true,
	}

	at := auth.NewAccessToken(s.app.LivekitInfo.ApiKey, s.app.LivekitInfo.Secret).
		SetVideoGrant(grant).
		SetIdentity(identity).
		SetValidFor(*s.app.Client.TokenValidity)

	return at.ToJWT()
}
