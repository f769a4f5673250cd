package ledger

import (
	"context"
	"fmt"

	"carwash-backend/models"
	"carwash-backend/persistence"

	"go.uber.org/zap"
)

// Action is a one-click step along WAITING -> IN_PROCESS -> READY -> DELIVERED.
type Action string

const (
	ActionStart   Action = "start"
	ActionFinish  Action = "finish"
	ActionDeliver Action = "deliver"
)

var actionSteps = map[Action]struct{ from, to models.ServiceStatus }{
	ActionStart:   {models.StatusWaiting, models.StatusInProcess},
	ActionFinish:  {models.StatusInProcess, models.StatusReady},
	ActionDeliver: {models.StatusReady, models.StatusDelivered},
}

// Next returns the guided action available from status, if any.
func Next(status models.ServiceStatus) (Action, bool) {
	for a, step := range actionSteps {
		if step.from == status {
			return a, true
		}
	}
	return "", false
}

// Apply runs a guided action. It fails with ErrInvalidTransition when the
// ticket is not in the action's source status.
func (s *Store) Apply(ctx context.Context, id string, action Action) (models.ServiceRecord, error) {
	step, ok := actionSteps[action]
	if !ok {
		return models.ServiceRecord{}, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.serviceIndexLocked(id)
	if i < 0 {
		return models.ServiceRecord{}, ErrServiceNotFound
	}
	if s.services[i].Status != step.from {
		return models.ServiceRecord{}, fmt.Errorf("%w: cannot %s a ticket that is %s",
			ErrInvalidTransition, action, s.services[i].Status)
	}
	return s.setStatusLocked(ctx, i, step.to), nil
}

func (s *Store) Start(ctx context.Context, id string) (models.ServiceRecord, error) {
	return s.Apply(ctx, id, ActionStart)
}

func (s *Store) Finish(ctx context.Context, id string) (models.ServiceRecord, error) {
	return s.Apply(ctx, id, ActionFinish)
}

// Deliver hands the vehicle back and stamps the exit time.
func (s *Store) Deliver(ctx context.Context, id string) (models.ServiceRecord, error) {
	return s.Apply(ctx, id, ActionDeliver)
}

// SetStatus overwrites the status with any valid value, bypassing the guided
// path.
func (s *Store) SetStatus(ctx context.Context, id string, status models.ServiceStatus) (models.ServiceRecord, error) {
	if !status.Valid() {
		return models.ServiceRecord{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.serviceIndexLocked(id)
	if i < 0 {
		return models.ServiceRecord{}, ErrServiceNotFound
	}
	if s.services[i].Status == status {
		return s.services[i], nil
	}
	return s.setStatusLocked(ctx, i, status), nil
}

func (s *Store) setStatusLocked(ctx context.Context, i int, status models.ServiceStatus) models.ServiceRecord {
	rec := s.services[i]
	from := rec.Status
	debtChanged := s.applyStatusLocked(&rec, status)
	s.services[i] = rec

	if debtChanged {
		s.persistLocked(ctx, persistence.SlotServices, persistence.SlotCustomers)
	} else {
		s.persistLocked(ctx, persistence.SlotServices)
	}
	s.log.Info("service status changed",
		zap.String("ticket", rec.ID),
		zap.String("from", string(from)),
		zap.String("to", string(status)))
	return rec
}

// applyStatusLocked sets the status on rec, stamps the exit time on delivery
// and keeps the owning customer's debt flag in step. rec is the new version of
// a ticket that may still be stored in its old form. It reports whether
// customers changed.
func (s *Store) applyStatusLocked(rec *models.ServiceRecord, status models.ServiceStatus) bool {
	from := rec.Status
	rec.Status = status
	if status == models.StatusDelivered {
		rec.ExitTime = s.clockString()
	}
	if from != models.StatusDebt && status != models.StatusDebt {
		return false
	}
	return s.refreshDebtLocked(rec.CustomerID, *rec)
}
