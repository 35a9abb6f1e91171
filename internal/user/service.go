package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"bolao/internal/platform/cache"
	"bolao/internal/platform/metrics"
	"bolao/pkg/audit"
	dErrors "bolao/pkg/domainerrors"
)

// Service owns user identity: sign-in upserts, profile lookups, and the
// public user count.
type Service struct {
	store    Store
	verifier ProfileVerifier

	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	count     *cache.Count
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithCountCache(count *cache.Count) Option {
	return func(s *Service) { s.count = count }
}

func New(store Store, verifier ProfileVerifier, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("profile verifier is required")
	}
	svc := &Service{store: store, verifier: verifier}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SignIn verifies the Google access token, creating the user on first sign-in
// and refreshing profile fields on return visits. The device summary comes
// from the request's User-Agent header.
func (s *Service) SignIn(ctx context.Context, accessToken, userAgent string) (*User, error) {
	profile, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify access token")
	}

	existing, err := s.store.FindByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	device := describeDevice(userAgent)
	if existing != nil {
		existing.Name = profile.Name
		existing.Email = profile.Email
		existing.AvatarURL = profile.Picture
		existing.Device = device
		if err := s.store.Update(ctx, *existing); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
		}
		return existing, nil
	}

	u := User{
		ID:        uuid.New(),
		Name:      profile.Name,
		Email:     profile.Email,
		GoogleID:  profile.ID,
		AvatarURL: profile.Picture,
		Device:    device,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	if s.count != nil {
		s.count.Invalidate(ctx)
	}
	audit.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:  audit.ActionUserCreated,
		UserID:  u.ID.String(),
		Subject: u.Email,
	})
	return &u, nil
}

// Get returns one user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Count reports the total number of users.
func (s *Service) Count(ctx context.Context) (int64, error) {
	if s.count != nil {
		return s.count.Get(ctx)
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	return n, nil
}

// describeDevice reduces a User-Agent header to "Browser x.y on OS".
func describeDevice(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	browser, version := ua.Browser()
	if browser == "" {
		return ""
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", browser, version, os)
	}
	return fmt.Sprintf("%s %s", browser, version)
}
