package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abinashpathak707-web/kishore-general-store/internal/share"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
	"github.com/go-co-op/gocron"
)

// DuesReminderService logs a daily rollup of customers with outstanding
// dues, each with a ready-to-send khata share link. It only reads state;
// no message is ever sent from the server.
type DuesReminderService struct {
	Store  *store.Store
	Share  share.Builder
	Logger *slog.Logger
}

// Start schedules the daily run at the given hour and returns the scheduler
// so the caller can stop it on shutdown.
func (s *DuesReminderService) Start(hour int) (*gocron.Scheduler, error) {
	sched := gocron.NewScheduler(time.Local)
	if _, err := sched.Every(1).Day().At(fmt.Sprintf("%02d:00", hour)).Do(s.Run); err != nil {
		return nil, fmt.Errorf("schedule dues reminder: %w", err)
	}
	sched.StartAsync()
	s.Logger.Info("dues reminder scheduled", "hour", hour)
	return sched, nil
}

// Run performs one rollup pass.
func (s *DuesReminderService) Run() {
	var withDues int
	for _, c := range s.Store.Customers("") {
		customer, _, sum, err := s.Store.CustomerLedger(c.ID)
		if err != nil {
			continue
		}
		if sum.TotalDue.Sign() <= 0 {
			continue
		}
		withDues++
		s.Logger.Info("customer has outstanding dues",
			"customer", customer.Name,
			"mobile", customer.Mobile,
			"due", sum.TotalDue.StringFixed(1),
			"reminder_link", s.Share.WhatsAppLink(customer.Mobile, s.Share.KhataMessage(*customer, sum)))
	}
	s.Logger.Info("dues reminder pass finished", "customers_with_dues", withDues)
}
