package models

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/meethub/meethub-server/pkg/config"
)

// StorageEvent is the normalized view of one inbound storage notification.
// It is consumed immediately and never persisted.
type StorageEvent struct {
	RecordID string
	Bucket   string
	FileType string
	FilePath string
}

// StorageEventParser decodes one provider's notification payload into a
// normalized event, failing with *ParsingEventDataError,
// *InvalidBucketError or *InvalidFileTypeError.
type StorageEventParser interface {
	GetRecordingEvent(payload []byte) (*StorageEvent, error)
}

type parserFactory func(info *config.StorageInfo) StorageEventParser

// parserFactories is the provider registry, resolved once at startup.
var parserFactories = map[string]parserFactory{
	config.StorageProviderMinio: newMinioEventParser,
	config.StorageProviderS3:    newS3EventParser,
}

// GetParser selects the parser implementation for the configured storage
// provider.
func GetParser(info *config.StorageInfo) (StorageEventParser, error) {
	factory, ok := parserFactories[info.Provider]
	if !ok {
		return nil, fmt.Errorf("no storage event parser for provider %q", info.Provider)
	}
	return factory(info), nil
}

// newStorageEvent validates bucket, object key shape and file type, and
// extracts the recording id from the key. Workers upload artifacts under
// "recordings/{record_id}/...".
func newStorageEvent(bucket, objectKey string, info *config.StorageInfo) (*StorageEvent, error) {
	if bucket == "" || objectKey == "" {
		return nil, &ParsingEventDataError{Reason: "missing bucket or object key"}
	}

	allowed := false
	for _, b := range info.Buckets {
		if b == bucket {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &InvalidBucketError{Bucket: bucket}
	}

	// object keys arrive url-encoded in bucket notifications
	key, err := url.QueryUnescape(objectKey)
	if err != nil {
		return nil, &ParsingEventDataError{Reason: fmt.Sprintf("undecodable object key %q", objectKey)}
	}

	segments := strings.Split(key, "/")
	if len(segments) < 3 || segments[0] != config.RecordingObjectPrefix {
		return nil, &ParsingEventDataError{Reason: fmt.Sprintf("unexpected object key shape %q", key)}
	}
	if _, err := uuid.Parse(segments[1]); err != nil {
		return nil, &ParsingEventDataError{Reason: fmt.Sprintf("object key %q carries no recording id", key)}
	}

	fileType := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	typeAllowed := false
	for _, t := range info.AllowedFileTypes {
		if t == fileType {
			typeAllowed = true
			break
		}
	}
	if !typeAllowed {
		return nil, &InvalidFileTypeError{FileType: fileType}
	}

	return &StorageEvent{
		RecordID: segments[1],
		Bucket:   bucket,
		FileType: fileType,
		FilePath: key,
	}, nil
}
