package models

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/meethub/meethub-server/pkg/config"
)

// minioEventParser handles MinIO webhook payloads. MinIO sends the S3
// records shape plus a top-level "bucket/key" field, which older versions
// send alone.
type minioEventParser struct {
	info *config.StorageInfo
}

type minioEventBody struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	s3EventRecords
}

func newMinioEventParser(info *config.StorageInfo) StorageEventParser {
	return &minioEventParser{info: info}
}

func (p *minioEventParser) GetRecordingEvent(payload []byte) (*StorageEvent, error) {
	var body minioEventBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &ParsingEventDataError{Reason: "payload is not valid json"}
	}

	if len(body.Records) > 0 {
		record := body.Records[0]
		return newStorageEvent(record.S3.Bucket.Name, record.S3.Object.Key, p.info)
	}

	if body.Key == "" {
		return nil, &ParsingEventDataError{Reason: "payload carries no records or key"}
	}

	bucket, key, found := strings.Cut(body.Key, "/")
	if !found {
		return nil, &ParsingEventDataError{Reason: "top-level key carries no bucket"}
	}

	return newStorageEvent(bucket, key, p.info)
}
