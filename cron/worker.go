package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookflow/config"
	"bookflow/services/booking"
)

const TypeHoldSweep = "holds:sweep"

// InitSweepWorker runs the expired-hold sweep in the background: an asynq
// worker consuming the sweep task plus a scheduler enqueuing it every
// minute. Readers already treat lapsed holds as free, so a missed run only
// delays cleanup.
func InitSweepWorker(svc booking.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldSweep, handleSweepTask(svc))

	go func() {
		log.Println("[SweepWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1m", asynq.NewTask(TypeHoldSweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] Failed to register sweep schedule: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[SweepWorker] Scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := svc.SweepExpiredHolds(ctx, time.Now())
		if err != nil {
			log.Printf("[SweepHandler] Sweep failed: %v", err)
			return err
		}
		if len(expired) > 0 {
			log.Printf("[SweepHandler] Expired %d lapsed hold(s)", len(expired))
		}
		return nil
	}
}
