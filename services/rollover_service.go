package services

import (
	"fmt"
	"log"
	"time"

	"github.com/michaelfullmer/contentcreatorforbusiness/repository"

	"github.com/robfig/cron/v3"
)

// RolloverService resets usage counters at billing-cycle boundaries. It
// periodically sweeps for records whose period has ended and zeroes their
// meters; the generation path never resets anything itself.
type RolloverService interface {
	// Start schedules the periodic sweep using the configured cron spec.
	Start(schedule string) error
	// Stop halts the scheduler and waits for a running sweep to finish.
	Stop()
	// RolloverDue resets every record whose period ended at or before now
	// and returns how many records were rolled over.
	RolloverDue(now time.Time) (int, error)
}

type rolloverService struct {
	usageRepo repository.UsageRepository
	cron      *cron.Cron
}

// NewRolloverService creates a new instance of RolloverService.
func NewRolloverService(usageRepo repository.UsageRepository) RolloverService {
	return &rolloverService{
		usageRepo: usageRepo,
		cron:      cron.New(),
	}
}

func (s *rolloverService) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		count, sweepErr := s.RolloverDue(time.Now())
		if sweepErr != nil {
			log.Printf("ERROR: [RolloverService] Billing period sweep failed: %v", sweepErr)
			return
		}
		if count > 0 {
			log.Printf("INFO: [RolloverService] Rolled over %d billing periods.", count)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rollover sweep (%q): %w", schedule, err)
	}
	s.cron.Start()
	log.Printf("INFO: [RolloverService] Billing period sweep scheduled (%s).", schedule)
	return nil
}

func (s *rolloverService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("INFO: [RolloverService] Scheduler stopped.")
}

func (s *rolloverService) RolloverDue(now time.Time) (int, error) {
	expired, err := s.usageRepo.ListExpired(now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired billing periods: %w", err)
	}

	count := 0
	for _, sub := range expired {
		if resetErr := s.usageRepo.ResetPeriod(sub.UserID); resetErr != nil {
			// Keep sweeping; the record stays expired and the next sweep
			// picks it up again.
			log.Printf("ERROR: [RolloverService] Failed to roll over period for userID %s: %v", sub.UserID, resetErr)
			continue
		}
		count++
	}
	return count, nil
}
