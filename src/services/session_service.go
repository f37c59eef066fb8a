package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/livefire2015/ez-rental/src/models"
	"github.com/livefire2015/ez-rental/src/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credentials are what a user presents to sign in
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialChecker verifies credentials and returns the matching account.
// A failed check returns an error wrapping models.ErrInvalidCredentials.
type CredentialChecker interface {
	Check(ctx context.Context, creds Credentials) (models.User, error)
}

// SessionStore holds the durable session marker: the signed-in user record.
// Load returns nil and no error when there is no marker.
type SessionStore interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}

// Session is the authorization gate: anonymous, or authenticated as one user
type Session struct {
	mu   sync.RWMutex
	user *models.User

	checker CredentialChecker
	store   SessionStore
	logger  *zap.Logger
}

// NewSession creates a session and restores the signed-in user from the marker store.
// A missing or unreadable marker starts the session anonymous.
func NewSession(ctx context.Context, checker CredentialChecker, sessions SessionStore, logger *zap.Logger) *Session {
	s := &Session{
		checker: checker,
		store:   sessions,
		logger:  logger,
	}

	user, err := sessions.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("failed to load session marker, starting anonymous", zap.Error(err))
	case user == nil:
	case user.Validate() != nil:
		logger.Warn("discarding invalid session marker", zap.String("user_id", user.ID.String()))
	default:
		s.user = user
		logger.Debug("session restored", zap.String("user_id", user.ID.String()))
	}
	return s
}

// SignIn checks the credentials and makes their owner the current user.
// On any failure the session keeps its previous state.
func (s *Session) SignIn(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := s.checker.Check(ctx, creds)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			s.logger.Info("sign in refused", zap.String("email", creds.Email))
			return nil, &models.AuthError{Op: "sign in", Err: models.ErrInvalidCredentials}
		}
		return nil, fmt.Errorf("failed to check credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.user = &user

	s.logger.Info("signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	out := user.Clone()
	return &out, nil
}

// SignOut ends the session. It always succeeds; a marker that cannot be cleared is logged.
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		s.logger.Info("signed out", zap.String("user_id", s.user.ID.String()))
	}
	s.user = nil
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session marker", zap.Error(err))
	}
}

// Current returns a copy of the signed-in user, or false when anonymous
func (s *Session) Current() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil, false
	}
	u := s.user.Clone()
	return &u, true
}

// Capabilities answers the role predicates. All are false when anonymous.
func (s *Session) Capabilities() models.Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.Capabilities{}
	}
	return s.user.Capabilities()
}

// Require returns the current user when signed in with one of the roles.
// With no roles any signed-in user passes.
func (s *Session) Require(roles ...models.Role) (*models.User, error) {
	user, ok := s.Current()
	if !ok {
		return nil, &models.AuthError{Op: "authorize", Err: models.ErrNotSignedIn}
	}
	if len(roles) == 0 {
		return user, nil
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	return nil, &models.AuthError{
		Op:  "authorize " + string(user.Role),
		Err: models.ErrForbidden,
	}
}

// PasswordChecker verifies bcrypt password hashes for catalog users looked up by email
type PasswordChecker struct {
	mu     sync.RWMutex
	hashes map[uuid.UUID][]byte

	users store.Store[models.User]
	cost  int
}

// NewPasswordChecker creates a checker over the user store. A cost of zero uses bcrypt.DefaultCost.
func NewPasswordChecker(users store.Store[models.User], cost int) *PasswordChecker {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordChecker{
		hashes: map[uuid.UUID][]byte{},
		users:  users,
		cost:   cost,
	}
}

// SetPassword stores the hash of a user's password
func (c *PasswordChecker) SetPassword(userID uuid.UUID, password string) error {
	if password == "" {
		return models.NewValidationError("user", "password", "is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[userID] = hash
	return nil
}

// Check finds the user by email, ignoring case, and compares the password.
// An unknown email and a wrong password return the same error.
func (c *PasswordChecker) Check(ctx context.Context, creds Credentials) (models.User, error) {
	users, err := c.users.List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to list users: %w", err)
	}

	key := models.User{Email: creds.Email}.EmailKey()
	for _, u := range users {
		if key == "" || u.EmailKey() != key {
			continue
		}
		c.mu.RLock()
		hash, ok := c.hashes[u.ID]
		c.mu.RUnlock()
		if !ok {
			break
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)); err != nil {
			break
		}
		return u, nil
	}
	return models.User{}, models.ErrInvalidCredentials
}

type sessionRecord struct {
	User       models.User `json:"user"`
	SignedInAt time.Time   `json:"signed_in_at"`
}

// FileSessionStore keeps the session marker as a JSON file
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a marker store at the given path
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Load reads the marker file
func (f *FileSessionStore) Load(_ context.Context) (*models.User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &rec.User, nil
}

// Save replaces the marker file atomically
func (f *FileSessionStore) Save(_ context.Context, user models.User) error {
	data, err := json.Marshal(sessionRecord{User: user, SignedInAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the marker file. A missing file is not an error.
func (f *FileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// RedisSessionStore keeps the session marker under a single Redis key
type RedisSessionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisSessionStore creates a marker store. A zero ttl keeps the marker until sign-out.
func NewRedisSessionStore(client *redis.Client, key string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, key: key, ttl: ttl}
}

// Load reads the marker key
func (r *RedisSessionStore) Load(ctx context.Context) (*models.User, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session key: %w", err)
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec.User, nil
}

// Save writes the marker key with the configured ttl
func (r *RedisSessionStore) Save(ctx context.Context, user models.User) error {
	data, err := json.Marshal(sessionRecord{User: user, SignedInAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session key: %w", err)
	}
	return nil
}

// Clear deletes the marker key
func (r *RedisSessionStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session key: %w", err)
	}
	return nil
}

// MemorySessionStore keeps the marker in process memory
type MemorySessionStore struct {
	mu   sync.Mutex
	user *models.User
}

// NewMemorySessionStore creates an empty marker store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Load returns a copy of the stored user
func (m *MemorySessionStore) Load(_ context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := m.user.Clone()
	return &u, nil
}

// Save stores a copy of the user
func (m *MemorySessionStore) Save(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := user.Clone()
	m.user = &u
	return nil
}

// Clear forgets the stored user
func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}
