package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"alphatrade/internal/service"
)

// Scheduler runs the periodic portfolio valuation snapshot.
type Scheduler struct {
	Cron      *cron.Cron
	Portfolio *service.Portfolio
}

// NewScheduler creates a new Scheduler.
func NewScheduler(p *service.Portfolio) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Portfolio: p,
	}
}

// Register registers the snapshot task with the given cron expression.
func (s *Scheduler) Register(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) snapshotTask() {
	snap, err := s.Portfolio.TakeSnapshot()
	if err != nil {
		log.Printf("[ERROR] portfolio snapshot failed: %v", err)
		return
	}
	log.Printf("[INFO] portfolio snapshot recorded: %.2f", snap.TotalValue)
}
