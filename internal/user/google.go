package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "bolao/pkg/domainerrors"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of Google's userinfo response we consume.
type GoogleProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// ProfileVerifier exchanges an OAuth access token for the profile it belongs
// to. Tests substitute a canned implementation.
type ProfileVerifier interface {
	Verify(ctx context.Context, accessToken string) (*GoogleProfile, error)
}

// GoogleVerifier verifies access tokens against Google's userinfo endpoint.
type GoogleVerifier struct {
	client *http.Client
	url    string
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    googleUserInfoURL,
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid Google access token")
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if profile.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid Google access token")
	}
	return &profile, nil
}
