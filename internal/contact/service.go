// Package contact records inbound leads and triggers the best-effort
// admin notification email.
package contact

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promosite/service-api/internal/contact/entity"
	"github.com/promosite/service-api/pkg/utilities"
)

// Repository is the store contract the service depends on.
type Repository interface {
	Create(ctx context.Context, c *entity.Contact) error
}

// Notifier delivers the admin notification for a new lead. A nil Notifier
// disables notifications.
type Notifier interface {
	SendLeadNotification(ctx context.Context, c *entity.Contact) error
}

// Service persists leads. Persistence and notification are not
// transactional: the lead is saved even when delivery fails.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, notifier Notifier, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Create persists the lead unconditionally and then attempts to notify
// the configured administrator address.
func (s *Service) Create(ctx context.Context, name, email, phone, message, leadType string) (*entity.Contact, error) {
	leadType = strings.TrimSpace(leadType)
	if leadType != entity.TypeAffiliate {
		leadType = entity.TypeContact
	}
	c := &entity.Contact{
		ID:        utilities.NewKSUID(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Message:   message,
		Type:      leadType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendLeadNotification(ctx, c); err != nil {
			// the lead is the system of record; notification is best effort
			s.logger.Warnw("lead notification failed", "lead_id", c.ID, "err", err)
		}
	}
	return c, nil
}
