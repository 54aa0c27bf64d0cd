package redisservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	lobbyParticipantKey = Prefix + "lobby:participant:%s:%s"
	lobbyRoomIndexKey   = Prefix + "lobby:room:%s"
	lobbyRoomsKey       = Prefix + "lobby:rooms"
)

const (
	ParticipantStatusPending  = "pending"
	ParticipantStatusAccepted = "accepted"
	ParticipantStatusDenied   = "denied"
)

// WaitingParticipant is an ephemeral lobby entry, stored per participant
// with a TTL equal to the configured wait timeout.
type WaitingParticipant struct {
	ID          string            `json:"id"`
	RoomID      string            `json:"room_id"`
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Status      string            `json:"status"`
	EnteredAt   int64             `json:"entered_at"`
}

// lobbyDecideLua applies a decision to a pending participant atomically.
// Returns 1 when this caller won, nil when the entry is missing, expired or
// already decided.
const lobbyDecideLua = `
local v = redis.call("GET", KEYS[1])
if not v then
    return nil
end
local p = cjson.decode(v)
if p.status ~= "pending" then
    return nil
end
p.status = ARGV[1]
redis.call("SET", KEYS[1], cjson.encode(p), "KEEPTTL")
return 1
`

// StoreWaitingParticipant creates the participant entry and registers it in
// the room index. The entry expires after ttl, which is how an undecided
// participant eventually disappears.
func (s *RedisService) StoreWaitingParticipant(ctx context.Context, p *WaitingParticipant, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(lobbyParticipantKey, p.RoomID, p.ID)
	ok, err := s.rc.SetNX(ctx, key, payload, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("participant %s already exists in lobby of room %s", p.ID, p.RoomID)
	}

	pipe := s.rc.Pipeline()
	pipe.SAdd(ctx, fmt.Sprintf(lobbyRoomIndexKey, p.RoomID), p.ID)
	pipe.SAdd(ctx, lobbyRoomsKey, p.RoomID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisService) GetWaitingParticipant(ctx context.Context, roomID, participantID string) (*WaitingParticipant, error) {
	key := fmt.Sprintf(lobbyParticipantKey, roomID, participantID)
	val, err := s.rc.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, err
	}

	p := new(WaitingParticipant)
	if err := json.Unmarshal([]byte(val), p); err != nil {
		return nil, err
	}

	return p, nil
}

// ListWaitingParticipants returns the room's pending participants ordered by
// arrival. Index members whose entries expired are pruned on the way.
func (s *RedisService) ListWaitingParticipants(ctx context.Context, roomID string) ([]*WaitingParticipant, error) {
	indexKey := fmt.Sprintf(lobbyRoomIndexKey, roomID)
	ids, err := s.rc.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*WaitingParticipant{}, nil
	}

	participants := make([]*WaitingParticipant, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		p, err := s.GetWaitingParticipant(ctx, roomID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			stale = append(stale, id)
			continue
		}
		if p.Status == ParticipantStatusPending {
			participants = append(participants, p)
		}
	}

	if len(stale) > 0 {
		if err := s.rc.SRem(ctx, indexKey, stale...).Err(); err != nil {
			s.logger.WithError(err).Warnln("failed to prune stale lobby index members")
		}
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].EnteredAt < participants[j].EnteredAt
	})

	return participants, nil
}

// DecideWaitingParticipant flips a pending participant to the given status.
// Exactly one concurrent caller wins; everyone else gets false.
func (s *RedisService) DecideWaitingParticipant(ctx context.Context, roomID, participantID, status string) (bool, error) {
	key := fmt.Sprintf(lobbyParticipantKey, roomID, participantID)
	err := s.lobbyDecideScript.Run(ctx, s.rc, []string{key}, status).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

// CleanLobbyIndexes removes index members whose participant entries have
// expired, and forgets rooms with an empty lobby. Called by the janitor.
func (s *RedisService) CleanLobbyIndexes(ctx context.Context) error {
	rooms, err := s.rc.SMembers(ctx, lobbyRoomsKey).Result()
	if err != nil {
		return err
	}

	for _, roomID := range rooms {
		indexKey := fmt.Sprintf(lobbyRoomIndexKey, roomID)
		ids, err := s.rc.SMembers(ctx, indexKey).Result()
		if err != nil {
			return err
		}

		var stale []interface{}
		for _, id := range ids {
			exists, err := s.rc.Exists(ctx, fmt.Sprintf(lobbyParticipantKey, roomID, id)).Result()
			if err != nil {
				return err
			}
			if exists == 0 {
				stale = append(stale, id)
			}
		}

		if len(stale) > 0 {
			if err := s.rc.SRem(ctx, indexKey, stale...).Err(); err != nil {
				return err
			}
		}

		left, err := s.rc.SCard(ctx, indexKey).Result()
		if err != nil {
			return err
		}
		if left == 0 {
			pipe := s.rc.Pipeline()
			pipe.Del(ctx, indexKey)
			pipe.SRem(ctx, lobbyRoomsKey, roomID)
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}
