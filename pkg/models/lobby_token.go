package models

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// lobbyCookieClaims binds a lobby cookie to one participant of one room.
type lobbyCookieClaims struct {
	jwt.Claims
	RoomID string `json:"room_id"`
}

// LobbyCookieSigner signs and verifies the short-lived correlation token a
// requester carries between the entry request and later status polls. The
// token is a bearer secret, no re-authentication happens on poll.
type LobbyCookieSigner struct {
	secret   []byte
	validity time.Duration
}

func NewLobbyCookieSigner(secret string, validity time.Duration) *LobbyCookieSigner {
	return &LobbyCookieSigner{
		secret:   []byte(secret),
		validity: validity,
	}
}

func (s *LobbyCookieSigner) Sign(roomID, participantID string) (string, error) {
	sig, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.HS256,
		Key:       s.secret,
	}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := lobbyCookieClaims{
		Claims: jwt.Claims{
			Subject:  participantID,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(s.validity)),
		},
		RoomID: roomID,
	}

	return jwt.Signed(sig).Claims(claims).Serialize()
}

// Verify returns the participant id the token was issued for, after
// checking the signature, the expiry and the room binding.
func (s *LobbyCookieSigner) Verify(token, roomID string) (string, error) {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return "", fmt.Errorf("unparsable lobby token: %w", err)
	}

	claims := new(lobbyCookieClaims)
	if err := parsed.Claims(s.secret, claims); err != nil {
		return "", fmt.Errorf("lobby token signature rejected: %w", err)
	}

	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return "", fmt.Errorf("lobby token no longer valid: %w", err)
	}
	if claims.RoomID != roomID {
		return "", fmt.Errorf("lobby token issued for another room")
	}

	return claims.Subject, nil
}
