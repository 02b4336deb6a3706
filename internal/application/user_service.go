package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/profilio/user-hub/internal/domain/entity"
	repo "github.com/profilio/user-hub/internal/domain/repository"
	"github.com/profilio/user-hub/internal/infrastructure/avatar"
	"github.com/profilio/user-hub/internal/infrastructure/profile"
	"github.com/profilio/user-hub/pkg/helpers"
	"github.com/profilio/user-hub/pkg/mailer"
	"github.com/profilio/user-hub/pkg/mailer/templates"
)

// Publisher is the fire-and-forget queue contract. Both the event queue
// and the email queue satisfy it via helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ProfileLookup fetches display profiles from the external user API.
type ProfileLookup interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// UserCreatedEvent is the payload published to the user_events queue.
type UserCreatedEvent struct {
	Type string      `json:"type"`
	User entity.User `json:"user"`
}

const sideEffectTimeout = 10 * time.Second

type Service struct {
	Repo         repo.UserRepository
	Avatars      *avatar.Store
	Events       Publisher
	Emails       Publisher
	Profiles     ProfileLookup
	Redis        *redis.Client
	ES           *elasticsearch.Client
	ESUsersIndex string
	AppName      string
	ProfileTTL   time.Duration
	Logger       *logrus.Logger
}

func NewService(r repo.UserRepository, store *avatar.Store, events, emails Publisher, profiles ProfileLookup, rdb *redis.Client, es *elasticsearch.Client, esUsersIndex, appName string, profileTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		Repo:         r,
		Avatars:      store,
		Events:       events,
		Emails:       emails,
		Profiles:     profiles,
		Redis:        rdb,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		AppName:      appName,
		ProfileTTL:   profileTTL,
		Logger:       logger,
	}
}

// CreateUser inserts the user record and kicks off the welcome email,
// the user_created event and search indexing as detached best-effort
// side effects. The row is committed regardless of their outcome; each
// one logs its own failure and none can fail or delay the response.
func (s *Service) CreateUser(ctx context.Context, name, email string) (*entity.User, error) {
	u := &entity.User{Name: name, Email: email}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	created := *u
	go s.sendWelcomeEmail(created)
	go s.publishUserCreated(created)
	go s.indexUser(created)

	return u, nil
}

func (s *Service) sendWelcomeEmail(u entity.User) {
	if s.Emails == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data: map[string]any{
			"Name":    u.Name,
			"Email":   u.Email,
			"AppName": s.AppName,
		},
	}
	if err := s.Emails.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func (s *Service) publishUserCreated(u entity.User) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	ev := UserCreatedEvent{Type: "user_created", User: u}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user_created publish failed")
	}
}

func profileCacheKey(id string) string {
	return "profile:" + id
}

// LookupProfile proxies the external profile API with a short-lived
// Redis cache in front. Cache failures fall through to the upstream.
func (s *Service) LookupProfile(ctx context.Context, id string) (*profile.Profile, error) {
	if s.Redis != nil {
		var cached profile.Profile
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	p, err := s.Profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileCacheKey(id), p, s.ProfileTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("profile_id", id).Warn("profile cache write failed")
		}
	}
	return p, nil
}

// PutAvatar stores the image, then records the store key on the user
// row. The two writes are sequential with no transaction; a crash in
// between leaves an orphaned file, which the next Put overwrites.
func (s *Service) PutAvatar(ctx context.Context, userID string, data []byte) (string, error) {
	if err := s.Avatars.Put(userID, data); err != nil {
		return "", err
	}
	key := avatar.Key(userID)
	if err := s.Repo.SetAvatar(ctx, userID, key); err != nil && s.Logger != nil {
		// File is in place; the pointer catches up on the next upload.
		s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar pointer update failed")
	}
	return key, nil
}

// GetAvatar returns the stored image as base64 text.
func (s *Service) GetAvatar(userID string) (string, error) {
	return s.Avatars.Get(userID)
}

// DeleteAvatar removes the file, then clears the pointer in the user
// directory. Both steps must succeed for the delete to succeed; a
// pointer that cannot be cleared is reported as a failure even though
// the file is already gone.
func (s *Service) DeleteAvatar(ctx context.Context, userID string) error {
	if err := s.Avatars.Delete(userID); err != nil {
		return err
	}
	if err := s.Repo.ClearAvatar(ctx, userID); err != nil {
		return fmt.Errorf("clear avatar pointer: %w", err)
	}
	return nil
}

func (s *Service) indexUser(u entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(ctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
