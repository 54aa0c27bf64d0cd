package models

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meethub/meethub-server/pkg/dbmodels"
	redisservice "github.com/meethub/meethub-server/pkg/services/redis"
)

func newLobbyFixture() (*LobbyModel, *fakeLobbyStore) {
	cnf := newTestConfig()
	store := newFakeLobbyStore()
	rooms := &fakeRoomLookup{
		rooms: map[string]*dbmodels.Room{
			"restricted-room": {ID: "restricted-room", Slug: "restricted", IsPublic: false},
			"public-room":     {ID: "public-room", Slug: "public", IsPublic: true},
		},
	}
	return NewLobbyModel(cnf, store, rooms, &fakeTokenIssuer{}, newTestLogger()), store
}

func TestLobby_RequestEntryRestricted(t *testing.T) {
	m, _ := newLobbyFixture()

	res, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != redisservice.ParticipantStatusPending {
		t.Errorf("expected pending, got %s", res.Status)
	}
	if res.ParticipantID == "" {
		t.Error("expected a participant id")
	}
	if res.Cookie == "" {
		t.Error("expected a correlation cookie")
	}
	if res.MediaToken != "" {
		t.Error("a pending participant must not receive a media token")
	}

	list, err := m.ListWaitingParticipants(context.Background(), "restricted-room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != res.ParticipantID {
		t.Errorf("expected the participant in the waiting list, got %v", list)
	}
}

func TestLobby_RequestEntryPublicRoomBypasses(t *testing.T) {
	m, store := newLobbyFixture()

	res, err := m.RequestEntry(context.Background(), "public-room", &EntryRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != redisservice.ParticipantStatusAccepted {
		t.Errorf("expected immediate acceptance, got %s", res.Status)
	}
	if res.MediaToken == "" {
		t.Error("expected a media token for a public room")
	}
	if len(store.participants) != 0 {
		t.Error("no waiting participant may be created for a public room")
	}

	list, err := m.ListWaitingParticipants(context.Background(), "public-room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("a public room has an empty waiting list, got %v", list)
	}
}

func TestLobby_RequestEntryValidation(t *testing.T) {
	m, _ := newLobbyFixture()

	if _, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{}); !errors.Is(err, ErrInvalidEntryRequest) {
		t.Errorf("expected ErrInvalidEntryRequest for an empty display name, got %v", err)
	}

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	_, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{DisplayName: string(long)})
	if !errors.Is(err, ErrInvalidEntryRequest) {
		t.Errorf("expected ErrInvalidEntryRequest for an oversized display name, got %v", err)
	}

	if _, err := m.RequestEntry(context.Background(), "missing", &EntryRequest{DisplayName: "Alice"}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestLobby_CookiePollAfterAcceptance(t *testing.T) {
	m, _ := newLobbyFixture()

	first, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	poll, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{Cookie: first.Cookie})
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if poll.ParticipantID != first.ParticipantID {
		t.Errorf("the cookie must map back to participant %s, got %s", first.ParticipantID, poll.ParticipantID)
	}
	if poll.Status != redisservice.ParticipantStatusPending {
		t.Errorf("expected pending before a decision, got %s", poll.Status)
	}

	if err := m.HandleParticipantEntry(context.Background(), "restricted-room", first.ParticipantID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	poll, err = m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{Cookie: first.Cookie})
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if poll.Status != redisservice.ParticipantStatusAccepted {
		t.Errorf("expected accepted, got %s", poll.Status)
	}
	if poll.MediaToken == "" {
		t.Error("an accepted participant must receive a media token")
	}
}

func TestLobby_DenyIsTerminal(t *testing.T) {
	m, _ := newLobbyFixture()

	res, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.HandleParticipantEntry(context.Background(), "restricted-room", res.ParticipantID, false); err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	list, _ := m.ListWaitingParticipants(context.Background(), "restricted-room")
	if len(list) != 0 {
		t.Errorf("a denied participant must leave the waiting list, got %v", list)
	}

	err = m.HandleParticipantEntry(context.Background(), "restricted-room", res.ParticipantID, false)
	if !errors.Is(err, ErrLobbyParticipantNotFound) {
		t.Errorf("a repeated decision must fail like an unknown id, got %v", err)
	}
}

func TestLobby_DecisionExactlyOnce(t *testing.T) {
	m, _ := newLobbyFixture()

	res, err := m.RequestEntry(context.Background(), "restricted-room", &EntryRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.HandleParticipantEntry(context.Background(), "restricted-room", res.ParticipantID, i%2 == 0)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else if !errors.Is(err, ErrLobbyParticipantNotFound) {
			t.Errorf("unexpected error under concurrent decisions: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("exactly one decision may win, got %d", won)
	}
}

func TestLobby_DecisionOnPublicRoom(t *testing.T) {
	m, _ := newLobbyFixture()

	err := m.HandleParticipantEntry(context.Background(), "public-room", "someone", true)
	if !errors.Is(err, ErrRoomHasNoLobby) {
		t.Errorf("expected ErrRoomHasNoLobby, got %v", err)
	}
}
