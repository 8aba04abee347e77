package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events/internal/config"
	"campus-events/internal/directory"
	"campus-events/internal/event"
	"campus-events/internal/notification"
	"campus-events/internal/queue"
	"campus-events/internal/registration"
	"campus-events/internal/store"
)

// The worker has two jobs: a periodic scan that queues reminders for
// approved events starting within the lead window, and a consumer loop
// that turns queued reminder messages into notifications. Redis SETNX
// keys deduplicate so each event is reminded at most once.

func main() {
	cfg := config.Load()
	if err := run(cfg); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campus:reminders")
	}

	userRepo := directory.NewRepository(db.Client)
	eventRepo := event.NewRepository(db.Client)
	regRepo := registration.NewRepository(db.Client)
	inbox := notification.NewRepository(db.Client)
	dispatcher := notification.NewDispatcher(inbox, userRepo, regRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &worker{
		cfg:        cfg,
		redis:      redisClient,
		queue:      q,
		events:     eventRepo,
		dispatcher: dispatcher,
	}

	go w.scanLoop(ctx)

	msgs, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	log.Printf("worker started, reminder lead %s, scan every %s", cfg.ReminderLead, cfg.ReminderInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("worker shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

type worker struct {
	cfg        config.App
	redis      *store.Redis
	queue      queue.Queue
	events     *event.Repository
	dispatcher *notification.Dispatcher
}

func (w *worker) handle(ctx context.Context, msg queue.Message) {
	switch msg.Type {
	case queue.TypeReminder:
		ev, err := w.events.ByID(ctx, msg.EventID)
		if err != nil {
			log.Printf("reminder for event %d skipped: %v", msg.EventID, err)
			return
		}
		if err := w.dispatcher.EventReminder(ctx, ev); err != nil {
			log.Printf("reminder fan-out for event %d incomplete: %v", msg.EventID, err)
			return
		}
		log.Printf("reminders sent for event %d (%s)", ev.ID, ev.Title)
	default:
		log.Printf("unknown message type %q dropped", msg.Type)
	}
}

// scanLoop queues a reminder for every approved event starting within the
// lead window, once per event.
func (w *worker) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ReminderInterval)
	defer ticker.Stop()
	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *worker) scan(ctx context.Context) {
	now := time.Now()
	upcoming, err := w.events.ApprovedStartingBetween(ctx, now, now.Add(w.cfg.ReminderLead))
	if err != nil {
		log.Printf("reminder scan failed: %v", err)
		return
	}
	for _, ev := range upcoming {
		key := fmt.Sprintf("campus:reminded:%d", ev.ID)
		ok, err := w.redis.Client.SetNX(ctx, key, "1", w.cfg.ReminderLead+time.Hour).Result()
		if err != nil {
			log.Printf("reminder dedup for event %d failed: %v", ev.ID, err)
			continue
		}
		if !ok {
			continue
		}
		if err := w.queue.Publish(ctx, queue.Message{Type: queue.TypeReminder, EventID: ev.ID}); err != nil {
			log.Printf("queueing reminder for event %d failed: %v", ev.ID, err)
		}
	}
}
