package models

import (
	"github.com/goccy/go-json"
	"github.com/meethub/meethub-server/pkg/config"
)

// s3EventRecords is the shared shape of S3 bucket notifications.
type s3EventRecords struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// s3EventParser handles AWS S3 bucket notification payloads.
type s3EventParser struct {
	info *config.StorageInfo
}

func newS3EventParser(info *config.StorageInfo) StorageEventParser {
	return &s3EventParser{info: info}
}

func (p *s3EventParser) GetRecordingEvent(payload []byte) (*StorageEvent, error) {
	var body s3EventRecords
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &ParsingEventDataError{Reason: "payload is not valid json"}
	}
	if len(body.Records) == 0 {
		return nil, &ParsingEventDataError{Reason: "payload carries no records"}
	}

	record := body.Records[0]
	return newStorageEvent(record.S3.Bucket.Name, record.S3.Object.Key, p.info)
}
