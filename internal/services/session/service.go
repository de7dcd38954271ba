package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/config"
	"github.com/ecomeli/verde/internal/infrastructure/redis"
)

const (
	cookieLifetime = 1 * time.Hour
)

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type Store interface {
	Set(ctx context.Context, sessionID string, state *State) error
	Get(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

type Service struct {
	store Store
}

func NewService(redisService *redis.Service) *Service {
	var store Store
	if redisService != nil {
		ctx := context.Background()
		if err := redisService.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, falling back to in-memory sessions")
			store = newMemoryStore()
		} else {
			store = &RedisStore{redisService: redisService}
		}
	} else {
		store = newMemoryStore()
	}

	return &Service{store: store}
}

func newMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*State),
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, sessionID, string(data), cookieLifetime)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := rs.redisService.Get(ctx, sessionID)
	if err != nil {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, sessionID)
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, sessionID string, state *State) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[sessionID] = state
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*State, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	state, exists := ms.sessions[sessionID]
	if !exists {
		return nil, nil
	}
	return state, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// Begin returns the state for the request's session, creating a new session
// (and setting its cookie) when no valid one exists
func (s *Service) Begin(w http.ResponseWriter, r *http.Request) (string, *State, error) {
	ctx := r.Context()

	if sessionID := s.sessionIDFromCookie(r); sessionID != "" {
		state, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return "", nil, err
		}
		if state != nil {
			return sessionID, state, nil
		}
	}

	sessionID, err := s.create(w)
	if err != nil {
		return "", nil, err
	}
	return sessionID, NewState(), nil
}

// Save persists the session state
func (s *Service) Save(ctx context.Context, sessionID string, state *State) error {
	return s.store.Set(ctx, sessionID, state)
}

// Destroy removes the session from storage and expires its cookie
func (s *Service) Destroy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sessionID := s.sessionIDFromCookie(r); sessionID != "" {
		_ = s.store.Delete(ctx, sessionID)
	}

	cookie := &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	}

	http.SetCookie(w, cookie)
}

// create generates a new session ID and sets its signed cookie in the response
func (s *Service) create(w http.ResponseWriter) (string, error) {
	sessionID := uuid.New().String()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cookieLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        sessionID,
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return "", err
	}

	cookie := &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieLifetime),
	}

	http.SetCookie(w, cookie)
	return sessionID, nil
}

// sessionIDFromCookie validates the session cookie and returns its session ID,
// or an empty string when the cookie is missing or invalid
func (s *Service) sessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil {
		return ""
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("Rejecting invalid session cookie")
		return ""
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims.SessionID
	}

	return ""
}
