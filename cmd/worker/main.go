package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/config"
	"github.com/suPer8Hu/mindguide/internal/contact"
	"github.com/suPer8Hu/mindguide/internal/db"
	"github.com/suPer8Hu/mindguide/internal/email"
	"github.com/suPer8Hu/mindguide/internal/logging"
	"github.com/suPer8Hu/mindguide/internal/store/rabbitmq"
)

const (
	maxAttempts = 5
	retryDelay  = 30 * time.Second
)

func main() {
	cfg := config.Load()
	lg := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Prefix: "worker",
	})

	if cfg.RabbitURL == "" {
		lg.Fatal("RABBIT_URL is required for the worker")
	}

	gdb, err := db.Connect(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Logger:       lg,
	})
	if err != nil {
		lg.Fatal("database", "err", err)
	}

	svc := contact.NewService(contact.NewRepo(gdb), nil, lg)
	mailer := email.NewSender(email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		lg.Fatal("rabbit dial", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		lg.Fatal("rabbit channel", "err", err)
	}
	defer ch.Close()

	// same arguments as the publisher, or the declare fails
	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		lg.Fatal("queue declare", "err", err)
	}

	//  strict concurrency control
	concurrency := cfg.WorkerConcurrency
	if err := ch.Qos(concurrency, 0, false); err != nil {
		lg.Fatal("qos", "err", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		lg.Fatal("consume", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency, "inbox", cfg.ContactInbox)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	// amqp channels are not safe for concurrent publishes
	var pubMu sync.Mutex
	retry := func(body []byte, attempt int) error {
		pubMu.Lock()
		defer pubMu.Unlock()
		return rabbitmq.PublishRetry(ctx, ch, cfg.RabbitQueue, body, attempt, retryDelay)
	}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			wl := lg.With("worker", workerID)
			for d := range jobs {
				handleDelivery(ctx, wl, d, func(id string) error {
					return svc.Deliver(ctx, mailer, cfg.ContactInbox, id)
				}, retry)
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			lg.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				lg.Error("delivery channel closed")
				close(jobs)
				wg.Wait()
				os.Exit(1)
			}
			jobs <- d
		}
	}
}

// handleDelivery acks on success, parks the job on the retry queue while
// attempts remain, and otherwise nacks it into the DLQ.
func handleDelivery(ctx context.Context, lg *log.Logger, d amqp.Delivery, deliver func(id string) error, retry func(body []byte, attempt int) error) {
	m, err := rabbitmq.DecodeJob(d.Body)
	if err != nil || m.JobID == "" {
		lg.Warn("bad message", "err", err)
		_ = d.Nack(false, false)
		return
	}

	attempt := rabbitmq.Attempt(d.Headers)
	start := time.Now()
	err = deliver(m.JobID)
	if err == nil {
		lg.Info("contact notified", "id", m.JobID, "attempt", attempt, "cost", time.Since(start))
		if err := d.Ack(false); err != nil {
			lg.Error("ack failed", "id", m.JobID, "err", err)
		}
		return
	}

	if ctx.Err() != nil {
		// shutting down: hand the job back to the broker untouched
		_ = d.Nack(false, true)
		return
	}
	// unknown submission: retrying cannot help
	if errors.Is(err, common.ErrNotFound) || attempt >= maxAttempts {
		lg.Error("contact notification failed", "id", m.JobID, "attempt", attempt, "err", err)
		_ = d.Nack(false, false)
		return
	}

	lg.Warn("contact notification failed, retrying", "id", m.JobID, "attempt", attempt, "err", err)
	if rerr := retry(d.Body, attempt+1); rerr != nil {
		lg.Error("retry publish failed", "id", m.JobID, "err", rerr)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
