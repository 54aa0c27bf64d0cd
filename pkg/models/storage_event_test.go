package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/meethub/meethub-server/pkg/config"
)

const testRecordID = "0d9c41cc-6ae9-46b6-b198-dfcedec50dcd"

func minioRecordsPayload(bucket, key string) []byte {
	return []byte(fmt.Sprintf(`{
		"EventName": "s3:ObjectCreated:Put",
		"Key": "%s/%s",
		"Records": [{"eventName": "s3:ObjectCreated:Put",
			"s3": {"bucket": {"name": "%s"}, "object": {"key": "%s"}}}]
	}`, bucket, key, bucket, key))
}

func TestGetParser(t *testing.T) {
	cnf := newTestConfig()

	if _, err := GetParser(&cnf.StorageInfo); err != nil {
		t.Errorf("expected a parser for provider %s, got %v", cnf.StorageInfo.Provider, err)
	}

	s3Info := cnf.StorageInfo
	s3Info.Provider = config.StorageProviderS3
	if _, err := GetParser(&s3Info); err != nil {
		t.Errorf("expected a parser for provider %s, got %v", s3Info.Provider, err)
	}

	unknown := cnf.StorageInfo
	unknown.Provider = "gcs"
	if _, err := GetParser(&unknown); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestMinioParser_Records(t *testing.T) {
	cnf := newTestConfig()
	parser, _ := GetParser(&cnf.StorageInfo)

	key := fmt.Sprintf("recordings/%s/%s.mp4", testRecordID, testRecordID)
	event, err := parser.GetRecordingEvent(minioRecordsPayload("meethub-recordings", key))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.RecordID != testRecordID {
		t.Errorf("expected record id %s, got %s", testRecordID, event.RecordID)
	}
	if event.Bucket != "meethub-recordings" {
		t.Errorf("unexpected bucket %s", event.Bucket)
	}
	if event.FileType != "mp4" {
		t.Errorf("unexpected file type %s", event.FileType)
	}
}

func TestMinioParser_TopLevelKeyFallback(t *testing.T) {
	cnf := newTestConfig()
	parser, _ := GetParser(&cnf.StorageInfo)

	payload := []byte(fmt.Sprintf(`{"EventName": "s3:ObjectCreated:Put",
		"Key": "meethub-recordings/recordings/%s/audio.ogg"}`, testRecordID))
	event, err := parser.GetRecordingEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.RecordID != testRecordID {
		t.Errorf("expected record id %s, got %s", testRecordID, event.RecordID)
	}
	if event.FileType != "ogg" {
		t.Errorf("unexpected file type %s", event.FileType)
	}
}

func TestS3Parser(t *testing.T) {
	cnf := newTestConfig()
	cnf.StorageInfo.Provider = config.StorageProviderS3
	parser, _ := GetParser(&cnf.StorageInfo)

	key := fmt.Sprintf("recordings/%s/capture.mp4", testRecordID)
	event, err := parser.GetRecordingEvent(minioRecordsPayload("meethub-recordings", key))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.RecordID != testRecordID {
		t.Errorf("expected record id %s, got %s", testRecordID, event.RecordID)
	}

	if _, err := parser.GetRecordingEvent([]byte(`{"Records": []}`)); err == nil {
		t.Error("expected an error for an empty records payload")
	}
}

func TestParser_ErrorTaxonomy(t *testing.T) {
	cnf := newTestConfig()
	parser, _ := GetParser(&cnf.StorageInfo)
	goodKey := fmt.Sprintf("recordings/%s/capture.mp4", testRecordID)

	var parseErr *ParsingEventDataError
	if _, err := parser.GetRecordingEvent([]byte("not json")); !errors.As(err, &parseErr) {
		t.Errorf("expected *ParsingEventDataError for malformed json, got %v", err)
	}

	var bucketErr *InvalidBucketError
	_, err := parser.GetRecordingEvent(minioRecordsPayload("another-bucket", goodKey))
	if !errors.As(err, &bucketErr) {
		t.Errorf("expected *InvalidBucketError, got %v", err)
	}

	var fileTypeErr *InvalidFileTypeError
	badType := fmt.Sprintf("recordings/%s/capture.txt", testRecordID)
	_, err = parser.GetRecordingEvent(minioRecordsPayload("meethub-recordings", badType))
	if !errors.As(err, &fileTypeErr) {
		t.Errorf("expected *InvalidFileTypeError, got %v", err)
	}

	_, err = parser.GetRecordingEvent(minioRecordsPayload("meethub-recordings", "uploads/file.mp4"))
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParsingEventDataError for a foreign key shape, got %v", err)
	}

	_, err = parser.GetRecordingEvent(minioRecordsPayload("meethub-recordings", "recordings/not-a-uuid/capture.mp4"))
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParsingEventDataError for a key without a recording id, got %v", err)
	}
}
