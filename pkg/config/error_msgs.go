package config

const (
	RequestedRoomNotExist  = "requested room does not exist"
	OnlyAdminCanRequest    = "only admin can send this request"
	RecordingNotFound      = "no recording found for this event"
	NoActiveRecordingFound = "no active recording found for this room"
	ParticipantNotFound    = "participant not found"
	RoomHasNoLobby         = "room has no lobby system"
	InvalidAPIKey          = "invalid api key"
	SignatureRequired      = "hash signature value required"
	InvalidSignature       = "can't verify provided information"
)
