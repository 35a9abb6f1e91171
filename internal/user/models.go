package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

// User is an identity created at first sign-in. Credentials never live here;
// authentication is delegated to Google and to our signed access tokens.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GoogleID  string    `json:"-"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	// Device is a human-readable browser/OS summary captured at the last
	// sign-in.
	Device    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignInRequest is the body of POST /users.
type SignInRequest struct {
	AccessToken string `json:"access_token"`
}

func (r *SignInRequest) Validate() error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "access_token is required")
	}
	return nil
}
