package services

import (
	"log"

	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"github.com/robfig/cron/v3"
)

// RecalculationScheduler runs the assignment date repair pass on a cron
// schedule, once per organization.
type RecalculationScheduler struct {
	cron    *cron.Cron
	batch   *AssignmentBatchService
	orgRepo repository.OrganizationRepository
}

// NewRecalculationScheduler creates a new RecalculationScheduler
func NewRecalculationScheduler(batch *AssignmentBatchService, orgRepo repository.OrganizationRepository) *RecalculationScheduler {
	return &RecalculationScheduler{
		cron:    cron.New(),
		batch:   batch,
		orgRepo: orgRepo,
	}
}

// Start registers the recalculation job with a 5-field cron expression and
// starts the scheduler.
func (s *RecalculationScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Recalculation scheduler started (%s)", spec)
	return nil
}

// Stop stops the scheduler; running jobs finish.
func (s *RecalculationScheduler) Stop() {
	s.cron.Stop()
}

func (s *RecalculationScheduler) run() {
	orgs, err := s.orgRepo.ListAll()
	if err != nil {
		log.Printf("Recalculation: failed to list organizations: %v", err)
		return
	}

	for _, org := range orgs {
		if err := s.batch.RecalculateDates(org.ID); err != nil {
			log.Printf("Recalculation: organization %d failed: %v", org.ID, err)
			continue
		}
	}
	log.Printf("Recalculation completed for %d organizations", len(orgs))
}
