package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/models"
	"github.com/meethub/meethub-server/pkg/utils"
)

type RoomController struct {
	app    *config.AppConfig
	rm     *models.RoomModel
	lm     *models.LobbyModel
	logger *logrus.Entry
}

func NewRoomController(app *config.AppConfig, rm *models.RoomModel, lm *models.LobbyModel, logger *logrus.Logger) *RoomController {
	return &RoomController{
		app:    app,
		rm:     rm,
		lm:     lm,
		logger: logger.WithField("controller", "room"),
	}
}

type createRoomReq struct {
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	IsPublic bool   `json:"is_public"`
}

func (ctl *RoomController) HandleCreateRoom(c *fiber.Ctx) error {
	req := new(createRoomReq)
	if err := c.BodyParser(req); err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}
	if req.Name == "" || req.OwnerID == "" {
		return utils.SendCommonResponse(c, false, "name and owner_id required")
	}

	room, err := ctl.rm.CreateRoom(c.UserContext(), req.Name, req.OwnerID, req.IsPublic)
	if err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(room)
}

func (ctl *RoomController) HandleGetRoom(c *fiber.Ctx) error {
	room, err := ctl.rm.GetRoom(c.UserContext(), c.Params("roomId"))
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(room)
}

type creationCallbackReq struct {
	RoomID string `json:"room_id"`
}

// HandleCreationCallback lets the creating client collect the one-shot
// room-created state. Unknown or already-collected ids answer 404.
func (ctl *RoomController) HandleCreationCallback(c *fiber.Ctx) error {
	req := new(creationCallbackReq)
	if err := c.BodyParser(req); err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}

	state, err := ctl.rm.GetCallbackState(c.UserContext(), req.RoomID)
	if err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}
	if state == nil {
		c.Status(fiber.StatusNotFound)
		return utils.SendCommonResponse(c, false, "no callback state for this room")
	}
	return c.JSON(state)
}

type requestEntryReq struct {
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (ctl *RoomController) HandleRequestEntry(c *fiber.Ctx) error {
	req := new(requestEntryReq)
	if err := c.BodyParser(req); err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}

	res, err := ctl.lm.RequestEntry(c.UserContext(), c.Params("roomId"), &models.EntryRequest{
		DisplayName: req.DisplayName,
		Metadata:    req.Metadata,
		Cookie:      c.Cookies(config.LobbyCookieName),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoomNotFound):
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		case errors.Is(err, models.ErrInvalidEntryRequest):
			c.Status(fiber.StatusBadRequest)
			return utils.SendCommonResponse(c, false, err.Error())
		case errors.Is(err, models.ErrLobbyParticipantNotFound):
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.ParticipantNotFound)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}

	if res.Cookie != "" {
		c.Cookie(&fiber.Cookie{
			Name:     config.LobbyCookieName,
			Value:    res.Cookie,
			Expires:  time.Now().Add(ctl.app.LobbyInfo.WaitTimeout),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(res)
}

func (ctl *RoomController) HandleWaitingParticipants(c *fiber.Ctx) error {
	list, err := ctl.lm.ListWaitingParticipants(c.UserContext(), c.Params("roomId"))
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return c.JSON(list)
}

type participantEntryReq struct {
	ParticipantID string `json:"participant_id"`
	AllowEntry    bool   `json:"allow_entry"`
}

func (ctl *RoomController) HandleParticipantEntry(c *fiber.Ctx) error {
	req := new(participantEntryReq)
	if err := c.BodyParser(req); err != nil {
		return utils.SendCommonResponse(c, false, err.Error())
	}

	err := ctl.lm.HandleParticipantEntry(c.UserContext(), c.Params("roomId"), req.ParticipantID, req.AllowEntry)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoomNotFound):
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.RequestedRoomNotExist)
		case errors.Is(err, models.ErrLobbyParticipantNotFound):
			c.Status(fiber.StatusNotFound)
			return utils.SendCommonResponse(c, false, config.ParticipantNotFound)
		case errors.Is(err, models.ErrRoomHasNoLobby):
			c.Status(fiber.StatusBadRequest)
			return utils.SendCommonResponse(c, false, config.RoomHasNoLobby)
		}
		return utils.SendCommonResponse(c, false, err.Error())
	}
	return utils.SendCommonResponse(c, true, "success")
}
