package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/utils"
)

// HandleAuthHeaderCheck guards the management API. It accepts two header
// values: API-KEY and HASH-SIGNATURE, the latter an hmac sha256 of the
// request body with the shared secret.
func HandleAuthHeaderCheck(c *fiber.Ctx) error {
	apiKey := c.Get("API-KEY", "")
	signature := c.Get("HASH-SIGNATURE", "")

	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.GetConfig().Client.ApiKey)) != 1 {
		c.Status(fiber.StatusUnauthorized)
		return utils.SendCommonResponse(c, false, config.InvalidAPIKey)
	}
	if signature == "" {
		c.Status(fiber.StatusUnauthorized)
		return utils.SendCommonResponse(c, false, config.SignatureRequired)
	}

	mac := hmac.New(sha256.New, []byte(config.GetConfig().Client.Secret))
	mac.Write(c.Body())
	expected := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		c.Status(fiber.StatusUnauthorized)
		return utils.SendCommonResponse(c, false, config.InvalidSignature)
	}

	return c.Next()
}
