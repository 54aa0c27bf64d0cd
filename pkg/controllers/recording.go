package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/models"
	"github.com/meethub/meethub-server/pkg/utils"
)

type RecordingController struct {
	app    *config.AppConfig
	rm     *models.RoomModel
	rec    *models.RecordingModel
	logger *logrus.Entry
}

func NewRecordingController(app *config.AppConfig, rm *models.RoomModel, rec *models.RecordingModel, logger *logrus.Logger) *RecordingController {
	return &RecordingController{
		app:    app,
		rm:     rm,
		rec:    rec,
		logger: logger.WithField("controller", "recording"),
	}
}

type startRecordingReq struct {
	Mode string `json:"mode"`
}

func (ctl *RecordingController) HandleStartRecording(c *fiber.Ctx) error {
	req := new(startRecordingReq)
	if err := c.BodyParser(req); err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}

	room, err := ctl.rm.GetRoom(c.UserContext(), c.Params("roomId"))
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}

	recording, err := ctl.rec.StartRecording(c.UserContext(), room, req.Mode)
	if err != nil {
		var startErr *models.RecordingStartError
		switch {
		case errors.Is(err, models.ErrDuplicateActiveRecording):
			c.Status(fiber.StatusConflict)
			return utils.SendCommonResponse(c, false, err.Error())
		case errors.As(err, &startErr):
			return utils.SendCommonResponse(c, false, startErr.Error())
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(recording)
}

func (ctl *RecordingController) HandleStopRecording(c *fiber.Ctx) error {
	room, err := ctl.rm.GetRoom(c.UserContext(), c.Params("roomId"))
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}

	recording, err := ctl.rec.StopRecording(c.UserContext(), room.ID)
	if err != nil {
		var stopErr *models.RecordingStopError
		switch {
		case errors.Is(err, models.ErrNoActiveRecording):
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.NoActiveRecordingFound)
		case errors.As(err, &stopErr):
			return utils.SendCommonResponse(c, false, stopErr.Error())
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(recording)
}

func (ctl *RecordingController) HandleFetchRecordings(c *fiber.Ctx) error {
	var roomIDs []string
	if roomID := c.Query("room_id"); roomID != "" {
		roomIDs = append(roomIDs, roomID)
	}

	offset, _ := strconv.ParseUint(c.Query("from", "0"), 10, 64)
	limit, _ := strconv.ParseUint(c.Query("limit", "20"), 10, 64)
	orderBy := c.Query("order_by", "DESC")

	recordings, total, err := ctl.rec.FetchRecordings(roomIDs, offset, limit, orderBy)
	if err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}

	return c.JSON(fiber.Map{
		"total_recordings": total,
		"from":             offset,
		"limit":            limit,
		"order_by":         orderBy,
		"recordings_list":  recordings,
	})
}

func (ctl *RecordingController) HandleDeleteRecording(c *fiber.Ctx) error {
	err := ctl.rec.DeleteRecording(c.Params("recordId"))
	if err != nil {
		if errors.Is(err, models.ErrRecordingNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RecordingNotFound)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return utils.SendCommonResponse(c, true, "success")
}

func (ctl *RecordingController) HandleDownloadRecording(c *fiber.Ctx) error {
	url, err := ctl.rec.GetDownloadURL(c.UserContext(), c.Params("recordId"))
	if err != nil {
		if errors.Is(err, models.ErrRecordingNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RecordingNotFound)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(fiber.Map{"url": url})
}
