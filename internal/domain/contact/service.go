// internal/domain/contact/service.go
package contact

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/validation"
)

// Subscribers records newsletter addresses
type Subscribers interface {
	// Add reports whether email was not already subscribed
	Add(ctx context.Context, email string) (bool, error)
}

// MemorySubscribers keeps newsletter addresses in process
type MemorySubscribers struct {
	mu     sync.Mutex
	emails map[string]struct{}
}

// NewMemorySubscribers creates an empty subscriber list
func NewMemorySubscribers() *MemorySubscribers {
	return &MemorySubscribers{emails: make(map[string]struct{})}
}

// Add implements Subscribers
func (m *MemorySubscribers) Add(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[email]; ok {
		return false, nil
	}
	m.emails[email] = struct{}{}
	return true, nil
}

// Len returns the number of subscribers
func (m *MemorySubscribers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emails)
}

// DefaultInboxLimit is how many recent messages the inbox keeps
const DefaultInboxLimit = 500

// Service receives contact messages and newsletter sign-ups
type Service struct {
	subscribers Subscribers
	validator   *validation.Validator
	logger      *logrus.Logger
	now         func() time.Time
	inboxLimit  int

	mu    sync.RWMutex
	inbox []Message
}

// NewService creates a new contact service
func NewService(subscribers Subscribers, logger *logrus.Logger) *Service {
	return &Service{
		subscribers: subscribers,
		validator:   validation.New(),
		logger:      logger,
		now:         time.Now,
		inboxLimit:  DefaultInboxLimit,
	}
}

// SubmitMessage validates and files a contact message
func (s *Service) SubmitMessage(req MessageRequest) (*Message, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	msg := Message{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      req.Email,
		Subject:    Subject(req.Subject),
		Body:       req.Message,
		ReceivedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.inbox = append(s.inbox, msg)
	// Keep only the newest messages
	if over := len(s.inbox) - s.inboxLimit; over > 0 {
		s.inbox = append([]Message(nil), s.inbox[over:]...)
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"subject":    msg.Subject,
		"email":      msg.Email,
	}).Info("Contact message received")

	return &msg, nil
}

// Inbox returns the most recent messages, oldest first
func (s *Service) Inbox() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.inbox))
	copy(out, s.inbox)
	return out
}

// Subscribe adds an address to the newsletter. Addresses compare
// case-insensitively and repeat sign-ups succeed without a duplicate.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (bool, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return false, err
	}

	added, err := s.subscribers.Add(ctx, req.Email)
	if err != nil {
		return false, err
	}

	if added {
		s.logger.WithField("email", req.Email).Info("Newsletter subscription added")
	}
	return added, nil
}
