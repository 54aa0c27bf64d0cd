package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/models"
)

// StorageWebhookController terminates the storage provider's bucket
// notifications. Response codes follow the provider's retry behavior:
// 2xx acknowledges (including legitimate no-ops), 404 flags an unknown
// recording, 403 marks permanently-bad input that must not be retried.
type StorageWebhookController struct {
	m      *models.StorageEventModel
	logger *logrus.Entry
}

func NewStorageWebhookController(m *models.StorageEventModel, logger *logrus.Logger) *StorageWebhookController {
	return &StorageWebhookController{
		m:      m,
		logger: logger.WithField("controller", "storageWebhook"),
	}
}

func (ctl *StorageWebhookController) HandleStorageWebhook(c *fiber.Ctx) error {
	recording, err := ctl.m.HandleIncomingEvent(c.UserContext(), c.Body())
	if err == nil {
		ctl.logger.WithField("recordId", recording.RecordID).Infoln("storage event processed")
		return c.SendStatus(fiber.StatusOK)
	}

	var parseErr *models.ParsingEventDataError
	var bucketErr *models.InvalidBucketError
	var fileTypeErr *models.InvalidFileTypeError

	switch {
	case errors.As(err, &fileTypeErr):
		// well formed but irrelevant, acknowledge so the provider stops retrying
		return c.SendStatus(fiber.StatusOK)
	case errors.As(err, &parseErr), errors.As(err, &bucketErr):
		ctl.logger.WithError(err).Warnln("rejected suspicious storage event")
		return c.SendStatus(fiber.StatusForbidden)
	case errors.Is(err, models.ErrRecordingNotFound):
		return c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, models.ErrRecordingNotSavable):
		return c.SendStatus(fiber.StatusForbidden)
	default:
		ctl.logger.WithError(err).Errorln("storage event processing failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
}
