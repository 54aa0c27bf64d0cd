package config

import "time"

const (
	RecorderBot = "RECORDER_BOT"

	// recording modes, each mapped to a worker backend at startup
	RecordingModeAudio = "audio"
	RecordingModeVideo = "video"

	// storage event providers
	StorageProviderMinio = "minio"
	StorageProviderS3    = "s3"

	// object key prefix the recording workers upload under
	RecordingObjectPrefix = "recordings"

	LobbyCookieName = "meethub_lobby"

	DefaultLobbyWaitTimeout     = 10 * time.Minute
	DefaultLobbyJanitorInterval = 1 * time.Minute
	DefaultNotifierWorkers      = 5

	MaxLobbyDisplayNameLength = 100
)
