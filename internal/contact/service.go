package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/suPer8Hu/mindguide/internal/common"
	"gorm.io/gorm"
)

// Publisher enqueues a notification job for a submission id.
type Publisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// Mailer delivers a plain-text e-mail.
type Mailer interface {
	SendText(to, subject, body string) error
}

type Service struct {
	repo *Repo
	pub  Publisher // nil: submissions stay pending
	log  *log.Logger
}

func NewService(repo *Repo, pub Publisher, lg *log.Logger) *Service {
	return &Service{repo: repo, pub: pub, log: lg}
}

// Submit validates and stores the form, then tries to enqueue a
// notification. Queue trouble never fails the submission.
func (s *Service) Submit(ctx context.Context, f Form) (*Submission, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	if f.Name == "" || f.Email == "" || f.Subject == "" || f.Message == "" {
		return nil, common.Invalid("All fields are required")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return nil, common.Invalid("Invalid email address")
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, fmt.Errorf("new id: %w", err)
	}
	sub := &Submission{
		ID:      id,
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
		Status:  StatusPending,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("store contact submission: %w", err)
	}

	s.enqueue(ctx, sub)
	return sub, nil
}

func (s *Service) enqueue(ctx context.Context, sub *Submission) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJob(ctx, sub.ID); err != nil {
		s.log.Warn("contact notification publish failed", "id", sub.ID, "err", err)
		return
	}
	if err := s.repo.MarkQueued(ctx, sub.ID); err != nil {
		s.log.Warn("contact mark queued failed", "id", sub.ID, "err", err)
		return
	}
	sub.Status = StatusQueued
}

// RequeuePending publishes every submission still pending, e.g. after the
// broker was down. Returns how many were queued.
func (s *Service) RequeuePending(ctx context.Context) (int, error) {
	if s.pub == nil {
		return 0, nil
	}
	pending, err := s.repo.ListPending(ctx, 100)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}
	n := 0
	for i := range pending {
		s.enqueue(ctx, &pending[i])
		if pending[i].Status == StatusQueued {
			n++
		}
	}
	return n, nil
}

// Deliver e-mails one submission to inbox. Already notified submissions are
// skipped so redelivered jobs are harmless.
func (s *Service) Deliver(ctx context.Context, m Mailer, inbox, id string) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("deliver %s: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("deliver %s: %w", id, err)
	}
	if sub.Status == StatusNotified {
		return nil
	}

	subject := "[MindGuide contact] " + sub.Subject
	body := "From: " + sub.Name + " <" + sub.Email + ">\n" +
		"Received: " + sub.CreatedAt.Format("2006-01-02 15:04:05 MST") + "\n\n" +
		sub.Message + "\n"

	if err := m.SendText(inbox, subject, body); err != nil {
		if markErr := s.repo.MarkFailed(ctx, id, err.Error()); markErr != nil {
			s.log.Error("contact mark failed failed", "id", id, "err", markErr)
		}
		return fmt.Errorf("deliver %s: %w", id, err)
	}
	return s.repo.MarkNotified(ctx, id)
}
