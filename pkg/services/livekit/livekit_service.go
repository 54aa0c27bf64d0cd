package livekitservice

import (
	"context"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/meethub/meethub-server/pkg/config"
	"github.com/sirupsen/logrus"
)

type LivekitService struct {
	app    *config.AppConfig
	ec     *lksdk.EgressClient
	logger *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *LivekitService {
	info := app.LivekitInfo
	return &LivekitService{
		app:    app,
		ec:     lksdk.NewEgressClient(info.Host, info.ApiKey, info.Secret),
		logger: logger.WithField("service", "livekit"),
	}
}

// StartRoomCompositeEgress starts a composite egress for the room, writing
// the artifact under the recording's object key. Returns the egress id.
func (s *LivekitService) StartRoomCompositeEgress(ctx context.Context, roomID, filepath string, audioOnly bool) (string, error) {
	fileType := livekit.EncodedFileType_MP4
	if audioOnly {
		fileType = livekit.EncodedFileType_OGG
	}

	req := &livekit.RoomCompositeEgressRequest{
		RoomName:  roomID,
		AudioOnly: audioOnly,
		FileOutputs: []*livekit.EncodedFileOutput{
			{
				FileType: fileType,
				Filepath: filepath,
			},
		},
	}

	info, err := s.ec.StartRoomCompositeEgress(ctx, req)
	if err != nil {
		return "", err
	}

	return info.EgressId, nil
}

func (s *LivekitService) StopEgress(ctx context.Context, egressID string) error {
	_, err := s.ec.StopEgress(ctx, &livekit.StopEgressRequest{
		EgressId: egressID,
	})
	return err
}
