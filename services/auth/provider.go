package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"meal-tracker/enums"
	"meal-tracker/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrMissingSecret      = errors.New("jwt secret is not configured")
)

// Provider is the identity provider the application talks to.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, string, error)
	SignOut(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*Session, error)
	Subscribe() (<-chan Event, func())
}

type claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service issues HS256 tokens for users stored in the users table and keeps
// the set of live sessions, so a signed-out token stops resolving at once.
type Service struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	logger logrus.FieldLogger
	now    func() time.Time

	mu          sync.Mutex
	sessions    map[string]*Session
	subscribers map[int]*subscriber
	nextSub     int
}

// subscriber receives every lifecycle event until it unsubscribes.
type subscriber struct {
	events chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// send blocks until the event is taken or the subscriber leaves.
func (sub *subscriber) send(event Event) {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	if sub.closed {
		return
	}
	select {
	case sub.events <- event:
	case <-sub.done:
	}
}

func NewService(db *gorm.DB, secret string, ttl time.Duration, logger logrus.FieldLogger) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{
		db:          db,
		secret:      []byte(secret),
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*Session),
		subscribers: make(map[int]*subscriber),
	}, nil
}

func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var count int
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user := &models.User{
		ID:          uuid.New().String(),
		Email:       email,
		Password:    string(hashed),
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"task": "auth", "user_id": user.ID}).Info("user registered")
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	s.Sweep()
	now := s.now()
	session := &Session{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"task": "auth", "user_id": user.ID, "session_id": session.ID}).Info("signed in")
	s.publish(Event{Type: enums.SignedIn, Session: *session})
	return session, token, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"task": "auth", "user_id": session.UserID, "session_id": session.ID}).Info("signed out")
	s.publish(Event{Type: enums.SignedOut, Session: *session})
	return nil
}

// Resolve validates the token and returns its live session.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) && parsed != nil {
		if expired, ok := parsed.Claims.(*claims); ok {
			s.expire(expired.ID)
		}
		return nil, ErrSessionNotFound
	}
	if err != nil || !parsed.Valid {
		return nil, ErrSessionNotFound
	}
	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	session, ok := s.sessions[tokenClaims.ID]
	s.mu.Unlock()
	if !ok || session.UserID != tokenClaims.Subject {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		s.expire(session.ID)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// expire ends a session whose token ran out and announces it as signed out.
func (s *Service) expire(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.logger.WithFields(logrus.Fields{"task": "auth", "user_id": session.UserID, "session_id": session.ID}).Info("session expired")
	s.publish(Event{Type: enums.SignedOut, Session: *session})
}

// Sweep ends every expired session and returns how many were ended.
func (s *Service) Sweep() int {
	now := s.now()
	s.mu.Lock()
	var expired []string
	for id, session := range s.sessions {
		if session.Expired(now) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()
	for _, id := range expired {
		s.expire(id)
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Subscribe registers a listener for sign-in and sign-out events. The
// returned func unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan Event, func()) {
	sub := &subscriber{events: make(chan Event, 16), done: make(chan struct{})}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = sub
	s.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() {
			close(sub.done)
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()

			sub.mu.Lock()
			sub.closed = true
			close(sub.events)
			sub.mu.Unlock()
		})
	}
}

// Sessions returns the number of live sessions.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// publish delivers event to every subscriber. A full subscriber slows the
// caller down instead of losing the event.
func (s *Service) publish(event Event) {
	s.mu.Lock()
	subs := make([]*subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub.send(event)
	}
}
