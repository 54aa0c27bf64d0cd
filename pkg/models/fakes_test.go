package models

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/dbmodels"
	dbservice "github.com/meethub/meethub-server/pkg/services/db"
	redisservice "github.com/meethub/meethub-server/pkg/services/redis"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestConfig() *config.AppConfig {
	tokenValidity := time.Minute * 10
	downloadValidity := time.Minute * 30
	cnf, _ := config.New(&config.AppConfig{
		Client: config.ClientInfo{
			ApiKey:        "testkey",
			Secret:        "testsecret",
			TokenValidity: &tokenValidity,
		},
		StorageInfo: config.StorageInfo{
			Provider:              config.StorageProviderMinio,
			Buckets:               []string{"meethub-recordings"},
			AllowedFileTypes:      []string{"mp4", "ogg"},
			DownloadTokenValidity: &downloadValidity,
		},
		LobbyInfo: config.LobbyInfo{
			WaitTimeout:     time.Minute * 10,
			JanitorInterval: time.Minute,
			CookieSecret:    "lobby-cookie-secret-lobby-cookie-secret",
		},
	})
	return cnf
}

// fakeRecordingStore keeps recordings in memory with the same conditional
// update semantics the database service provides.
type fakeRecordingStore struct {
	mu         sync.Mutex
	recordings map[string]*dbmodels.Recording
}

func newFakeRecordingStore() *fakeRecordingStore {
	return &fakeRecordingStore{
		recordings: make(map[string]*dbmodels.Recording),
	}
}

func (f *fakeRecordingStore) CreateRecording(info *dbmodels.Recording) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.recordings {
		if r.RoomID == info.RoomID && (r.Status == dbmodels.RecordingStatusInitiated || r.Status == dbmodels.RecordingStatusActive) {
			return dbservice.ErrDuplicateActiveRecording
		}
	}
	info.Status = dbmodels.RecordingStatusInitiated
	cp := *info
	f.recordings[info.RecordID] = &cp
	return nil
}

func (f *fakeRecordingStore) GetRecording(recordID string) (*dbmodels.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.recordings[recordID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecordingStore) GetActiveRecording(roomID string) (*dbmodels.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.recordings {
		if r.RoomID == roomID && r.Status == dbmodels.RecordingStatusActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordingStore) GetRecordings(roomIDs []string, offset, limit uint64, direction *string) ([]dbmodels.Recording, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []dbmodels.Recording
	for _, r := range f.recordings {
		if len(roomIDs) > 0 {
			match := false
			for _, id := range roomIDs {
				if r.RoomID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordingStore) DeleteRecording(recordID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.recordings[recordID]; !ok {
		return 0, nil
	}
	delete(f.recordings, recordID)
	return 1, nil
}

func (f *fakeRecordingStore) MarkRecordingActive(recordID, jobRef string) (bool, error) {
	return f.UpdateRecordingStatus(recordID,
		[]dbmodels.RecordingStatus{dbmodels.RecordingStatusInitiated},
		dbmodels.RecordingStatusActive)
}

func (f *fakeRecordingStore) UpdateRecordingStatus(recordID string, from []dbmodels.RecordingStatus, to dbmodels.RecordingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.recordings[recordID]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecordingStore) MarkRecordingSaved(recordID string, bucket, filePath string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.recordings[recordID]
	if !ok {
		return false, nil
	}
	if r.Status != dbmodels.RecordingStatusInitiated && r.Status != dbmodels.RecordingStatusActive {
		return false, nil
	}
	r.Status = dbmodels.RecordingStatusSaved
	r.Bucket.String, r.Bucket.Valid = bucket, true
	r.FilePath.String, r.FilePath.Valid = filePath, true
	return true, nil
}

func (f *fakeRecordingStore) IncrementStopAttempts(recordID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.recordings[recordID]
	if !ok {
		return 0, nil
	}
	r.StopAttempts++
	return r.StopAttempts, nil
}

func (f *fakeRecordingStore) status(recordID string) dbmodels.RecordingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.recordings[recordID]; ok {
		return r.Status
	}
	return ""
}

// fakeWorker is a scriptable backend adapter.
type fakeWorker struct {
	jobRef   string
	startErr error
	stopErr  error
	started  int
	stopped  int
}

func (w *fakeWorker) StartRecording(ctx context.Context, recording *dbmodels.Recording) (string, error) {
	w.started++
	if w.startErr != nil {
		return "", w.startErr
	}
	return w.jobRef, nil
}

func (w *fakeWorker) StopRecording(ctx context.Context, recording *dbmodels.Recording) error {
	w.stopped++
	return w.stopErr
}

// fakeNotifier counts dispatches and answers with a fixed result.
type fakeNotifier struct {
	mu     sync.Mutex
	result bool
	calls  int
}

func (n *fakeNotifier) NotifyExternalServices(ctx context.Context, recording *dbmodels.Recording, event *StorageEvent) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.result
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// fakeLobbyStore mirrors the redis lobby semantics: TTL-free storage with an
// atomic pending-to-decided transition.
type fakeLobbyStore struct {
	mu           sync.Mutex
	participants map[string]*redisservice.WaitingParticipant
}

func newFakeLobbyStore() *fakeLobbyStore {
	return &fakeLobbyStore{
		participants: make(map[string]*redisservice.WaitingParticipant),
	}
}

func (f *fakeLobbyStore) StoreWaitingParticipant(ctx context.Context, p *redisservice.WaitingParticipant, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.participants[p.RoomID+"/"+p.ID] = &cp
	return nil
}

func (f *fakeLobbyStore) GetWaitingParticipant(ctx context.Context, roomID, participantID string) (*redisservice.WaitingParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[roomID+"/"+participantID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeLobbyStore) ListWaitingParticipants(ctx context.Context, roomID string) ([]*redisservice.WaitingParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*redisservice.WaitingParticipant
	for _, p := range f.participants {
		if p.RoomID == roomID && p.Status == redisservice.ParticipantStatusPending {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLobbyStore) DecideWaitingParticipant(ctx context.Context, roomID, participantID, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[roomID+"/"+participantID]
	if !ok || p.Status != redisservice.ParticipantStatusPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}

// fakeRoomLookup serves a fixed set of rooms.
type fakeRoomLookup struct {
	rooms map[string]*dbmodels.Room
}

func (f *fakeRoomLookup) GetRoom(ctx context.Context, idOrSlug string) (*dbmodels.Room, error) {
	if r, ok := f.rooms[idOrSlug]; ok {
		return r, nil
	}
	return nil, ErrRoomNotFound
}

// fakeTokenIssuer mints predictable tokens.
type fakeTokenIssuer struct{}

func (f *fakeTokenIssuer) GenerateToken(roomID, identity, name string) (string, error) {
	return "token-" + roomID + "-" + name, nil
}

func (f *fakeTokenIssuer) GenerateHiddenBotToken(roomID, identity string) (string, error) {
	return "bot-token-" + identity, nil
}
