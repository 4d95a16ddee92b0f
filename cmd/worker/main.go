package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/config"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/mailer"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/queue"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/store"
)

// Worker drains the email queue. Sends are best-effort: a failure is logged
// and the job dropped, never retried.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		log.Println("WARNING: memory queue backend; the worker only sees jobs published in this process")
		jobs = queue.NewInMemory(256)
	} else {
		redisClient := store.NewRedis(cfg.RedisAddr)
		jobs = queue.NewRedisQueue(redisClient.Client, "campusconnect:jobs")
	}

	var sender mailer.Mailer
	if cfg.SendgridKey != "" {
		sender = mailer.NewSendgrid(cfg.SendgridKey, cfg.AppName, cfg.EmailFrom)
		log.Println("mailer: sendgrid configured")
	} else {
		sender = mailer.Console{}
		log.Println("mailer: sendgrid not configured, logging to console")
	}

	messages, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for email jobs...")
	for msg := range messages {
		if msg.Type != "email" {
			continue
		}
		job, err := mailer.DecodeJob(msg.Body)
		if err != nil {
			log.Printf("bad email job payload: %v", err)
			continue
		}
		if err := sender.Send(job); err != nil {
			log.Printf("send to %s failed: %v", job.To, err)
			continue
		}
		log.Printf("sent %q to %s", job.Subject, job.To)
	}

	log.Println("worker stopped")
}
