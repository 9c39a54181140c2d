package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"paygo/internal/booking"
	"paygo/internal/logger"
	"paygo/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues notification jobs on Redis and drains them through SMTP
// from a background worker, so a slow mail server never blocks a booking.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Tries = 0
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		metrics.RecordNotification(job.Type, "error")
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue %s notification for %s: %v", job.Type, job.To, err)
		metrics.RecordNotification(job.Type, "error")
		return err
	}

	logger.Infof("Notification queued: %s to %s", job.Subject, job.To)
	metrics.RecordNotification(job.Type, "queued")
	return nil
}

func (s *Service) BookingConfirmed(ctx context.Context, email, name string, b *booking.Booking) error {
	body := fmt.Sprintf(`Hi %s,

Your session is booked!

Code: %s
Center: %s
Date: %s at %s
Type: %s

Show the booking code at the front desk if the scanner is down.

- PayGo Team`, name, b.BookingCode, b.CenterName, b.SessionDate, b.TimeSlot, b.SessionType)

	return s.enqueue(ctx, Job{
		Type:    "booking_confirmed",
		To:      email,
		Name:    name,
		Subject: "Booking Confirmed - " + b.CenterName,
		Body:    body,
	})
}

func (s *Service) BookingCancelled(ctx context.Context, email, name string, b *booking.Booking, refunded int64) error {
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Code: %s
Center: %s
Date: %s at %s

%d has been credited back to your wallet.

- PayGo Team`, name, b.BookingCode, b.CenterName, b.SessionDate, b.TimeSlot, refunded)

	return s.enqueue(ctx, Job{
		Type:    "booking_cancelled",
		To:      email,
		Name:    name,
		Subject: "Booking Cancelled - " + b.CenterName,
		Body:    body,
	})
}

func (s *Service) WalletRecharged(ctx context.Context, email, name string, amount, balance int64) error {
	body := fmt.Sprintf(`Hi %s,

Your wallet recharge went through.

Amount: %d
New balance: %d

- PayGo Team`, name, amount, balance)

	return s.enqueue(ctx, Job{
		Type:    "wallet_recharged",
		To:      email,
		Name:    name,
		Subject: "Wallet Recharged",
		Body:    body,
	})
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending %s notification to %s (attempt %d)", job.Type, job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
			metrics.RecordNotification(job.Type, "failed")
		}
		return
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Infof("Notification sent to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
