package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/transport-site/internal/mail"
)

var (
	// ErrQueueFull is returned when no slot is free for another message.
	ErrQueueFull = errors.New("mail queue is full")
	// ErrQueueStopped is returned after Stop.
	ErrQueueStopped = errors.New("mail queue stopped")
)

// MailQueueConfig tunes the queue.
type MailQueueConfig struct {
	FrontendURL string
	ResetTTL    time.Duration
	Size        int
	Workers     int
	Timeout     time.Duration
}

type mailJob struct {
	kind string
	msg  mail.Message
}

// MailQueue renders security emails and sends them on background workers.
type MailQueue struct {
	mailer mail.Mailer
	cfg    MailQueueConfig
	logger *zap.Logger
	jobs   chan mailJob

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewMailQueue builds a queue; call Start before sending.
func NewMailQueue(mailer mail.Mailer, cfg MailQueueConfig, logger *zap.Logger) *MailQueue {
	if cfg.Size <= 0 {
		cfg.Size = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailQueue{
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		jobs:   make(chan mailJob, cfg.Size),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (q *MailQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

// Stop rejects new messages and waits for queued ones to finish.
func (q *MailQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}

// SendPasswordReset queues the reset email carrying token.
func (q *MailQueue) SendPasswordReset(_ context.Context, email, token string) error {
	msg, err := mail.PasswordResetMessage(q.cfg.FrontendURL, email, token, humanDuration(q.cfg.ResetTTL))
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return q.enqueue(mailJob{kind: "password_reset", msg: msg})
}

// SendPasswordChanged queues the change notice for email.
func (q *MailQueue) SendPasswordChanged(_ context.Context, email string) error {
	msg, err := mail.PasswordChangedMessage(email)
	if err != nil {
		return fmt.Errorf("render change notice: %w", err)
	}
	return q.enqueue(mailJob{kind: "password_changed", msg: msg})
}

func (q *MailQueue) enqueue(job mailJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return ErrQueueStopped
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MailQueue) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), q.cfg.Timeout)
		err := q.mailer.Send(ctx, job.msg)
		cancel()
		if err != nil {
			// the body holds the reset link, so only the envelope is logged
			q.logger.Error("email delivery failed",
				zap.String("kind", job.kind),
				zap.String("to", job.msg.To),
				zap.Error(err))
			continue
		}
		q.logger.Info("email sent", zap.String("kind", job.kind), zap.String("to", job.msg.To))
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0 || d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d < 2*time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
