package services

import (
	"context"
	"fmt"
	"time"

	"meetlite/internal/core/domain"
	"meetlite/internal/core/ports"

	"github.com/livekit/protocol/auth"
)

// tokenService wraps LiveKit access-token signing. It is stateless per
// call; the key pair is loaded once at startup and never reloaded.
type tokenService struct {
	apiKey    string
	apiSecret string
	url       string
	tokenTTL  time.Duration
}

func NewTokenService(apiKey, apiSecret, url string, tokenTTL time.Duration) ports.TokenService {
	return &tokenService{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		url:       url,
		tokenTTL:  tokenTTL,
	}
}

// IssueToken mints a join-only credential for exactly one room. The room is
// taken at face value: rooms act as shared secrets and no registry check is
// performed here, matching the admission API contract.
func (s *tokenService) IssueToken(ctx context.Context, room domain.RoomID, identity domain.Identity) (*domain.AccessGrant, error) {
	if room == "" {
		return nil, domain.ErrMissingRoom
	}
	if identity == "" {
		return nil, domain.ErrMissingIdentity
	}

	at := auth.NewAccessToken(s.apiKey, s.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     string(room),
	}
	at.AddGrant(grant).
		SetIdentity(string(identity)).
		SetName(string(identity)).
		SetValidFor(s.tokenTTL)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.AccessGrant{
		Token: token,
		URL:   s.url,
		Room:  room,
	}, nil
}
