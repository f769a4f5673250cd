// Package ledger owns the shop's service tickets, the customer aggregates
// derived from them and the conversation inbox. Store methods are the only
// write path; every mutation rewrites the affected collections through the
// persistence gateway before returning.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"carwash-backend/models"
	"carwash-backend/persistence"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryTimeLayout is how intake and delivery times are displayed.
const EntryTimeLayout = "03:04 PM"

type Store struct {
	mu      sync.Mutex
	gateway persistence.Gateway
	log     *zap.Logger
	ids     *snowflake.Node
	now     func() time.Time

	services      []models.ServiceRecord // most recent first
	customers     []models.Customer
	conversations []models.Conversation
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDNode(node *snowflake.Node) Option {
	return func(s *Store) { s.ids = node }
}

// New loads the three collections from the gateway. A slot that was never
// written is seeded with sample data and persisted.
func New(ctx context.Context, gateway persistence.Gateway, opts ...Option) (*Store, error) {
	s := &Store{
		gateway: gateway,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("ledger")

	if s.ids == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, fmt.Errorf("failed to create id node: %w", err)
		}
		s.ids = node
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadLocked(ctx context.Context) error {
	var seeded []string

	found, err := s.gateway.Load(ctx, persistence.SlotServices, &s.services)
	if err != nil {
		return err
	}
	if !found {
		s.services = models.SampleServices()
		seeded = append(seeded, persistence.SlotServices)
	}

	found, err = s.gateway.Load(ctx, persistence.SlotCustomers, &s.customers)
	if err != nil {
		return err
	}
	if !found {
		s.customers = models.SampleCustomers()
		seeded = append(seeded, persistence.SlotCustomers)
	}

	found, err = s.gateway.Load(ctx, persistence.SlotConversations, &s.conversations)
	if err != nil {
		return err
	}
	if !found {
		s.conversations = models.SampleConversations()
		seeded = append(seeded, persistence.SlotConversations)
	}

	if len(seeded) > 0 {
		s.log.Info("seeded empty slots with sample data", zap.Strings("slots", seeded))
		s.persistLocked(ctx, seeded...)
	}

	s.log.Info("ledger loaded",
		zap.Int("services", len(s.services)),
		zap.Int("customers", len(s.customers)),
		zap.Int("conversations", len(s.conversations)))
	return nil
}

// persistLocked rewrites whole slots. Failures are logged, not returned: the
// in-memory ledger stays authoritative and the next mutation rewrites the slot.
// Writes happen under the lock so slots land in mutation order.
func (s *Store) persistLocked(ctx context.Context, slots ...string) {
	for _, slot := range slots {
		var value any
		switch slot {
		case persistence.SlotServices:
			value = s.services
		case persistence.SlotCustomers:
			value = s.customers
		case persistence.SlotConversations:
			value = s.conversations
		default:
			continue
		}
		if err := s.gateway.Save(ctx, slot, value); err != nil {
			s.log.Error("failed to persist slot", zap.String("slot", slot), zap.Error(err))
		}
	}
}

// Reset drops every slot and reloads the sample data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	s.services = models.SampleServices()
	s.customers = models.SampleCustomers()
	s.conversations = models.SampleConversations()
	s.persistLocked(ctx, persistence.SlotServices, persistence.SlotCustomers, persistence.SlotConversations)
	s.log.Warn("ledger reset to sample data")
	return nil
}

func (s *Store) newTicketID() string {
	return "TKT-" + strings.ToUpper(s.ids.Generate().Base36())
}

func newCustomerID() string {
	return "C-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Store) clockString() string {
	return s.now().Format(EntryTimeLayout)
}

// ---------------------------------------------------------------------------
// Services
// ---------------------------------------------------------------------------

// ServiceInput is an intake request. Price nil means the service type's list price.
type ServiceInput struct {
	ID           string
	Plate        string
	CustomerName string
	Phone        string
	ServiceType  models.ServiceType
	Price        *float64
	Status       models.ServiceStatus
	Notes        string

	// CustomerID attributes the visit to a known customer instead of matching
	// by name or plate.
	CustomerID string
}

func (in ServiceInput) validate() error {
	if strings.TrimSpace(in.Plate) == "" {
		return fmt.Errorf("%w: plate is required", ErrValidation)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.ServiceType != "" && !in.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, in.ServiceType)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	return nil
}

// NormalizePlate trims and upper-cases a plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// AddService records a new ticket at the head of the board and attributes the
// visit to exactly one customer before returning.
func (s *Store) AddService(ctx context.Context, in ServiceInput) (models.ServiceRecord, Attribution, error) {
	if err := in.validate(); err != nil {
		return models.ServiceRecord{}, Attribution{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.ServiceRecord{
		ID:           strings.TrimSpace(in.ID),
		Plate:        NormalizePlate(in.Plate),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		ServiceType:  in.ServiceType,
		Status:       in.Status,
		EntryTime:    s.clockString(),
		Notes:        strings.TrimSpace(in.Notes),
	}
	if rec.ID == "" {
		rec.ID = s.newTicketID()
	} else if s.serviceIndexLocked(rec.ID) >= 0 {
		return models.ServiceRecord{}, Attribution{}, fmt.Errorf("%w: ticket %s already exists", ErrValidation, rec.ID)
	}
	if rec.ServiceType == "" {
		rec.ServiceType = models.ServiceBasic
	}
	if rec.Status == "" {
		rec.Status = models.StatusWaiting
	}
	if in.Price != nil {
		rec.Price = *in.Price
	} else {
		rec.Price = rec.ServiceType.ListPrice()
	}

	attr := s.attributeLocked(&rec, strings.TrimSpace(in.CustomerID))
	if rec.Status == models.StatusDebt {
		s.refreshDebtLocked(rec.CustomerID, rec)
	}

	s.services = append([]models.ServiceRecord{rec}, s.services...)
	s.persistLocked(ctx, persistence.SlotServices, persistence.SlotCustomers)

	s.log.Info("service added",
		zap.String("ticket", rec.ID),
		zap.String("plate", rec.Plate),
		zap.String("customer_id", attr.CustomerID),
		zap.Bool("new_customer", attr.Created))
	return rec, attr, nil
}

// RemoveService deletes a ticket. Customer aggregates are left as they are.
// It reports false when no ticket has that id.
func (s *Store) RemoveService(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.serviceIndexLocked(id)
	if i < 0 {
		return false
	}
	s.services = append(s.services[:i:i], s.services[i+1:]...)
	s.persistLocked(ctx, persistence.SlotServices)
	s.log.Info("service removed", zap.String("ticket", id))
	return true
}

// ServicePatch carries the fields to change on an existing ticket.
type ServicePatch struct {
	Plate        *string
	CustomerName *string
	Phone        *string
	ServiceType  *models.ServiceType
	Price        *float64
	Status       *models.ServiceStatus
	Notes        *string
}

// UpdateService edits a ticket in place. The visit stays attributed to the
// customer it was credited to at intake; a price change moves that customer's
// total spent by the difference.
func (s *Store) UpdateService(ctx context.Context, id string, p ServicePatch) (models.ServiceRecord, error) {
	if p.Plate != nil && strings.TrimSpace(*p.Plate) == "" {
		return models.ServiceRecord{}, fmt.Errorf("%w: plate is required", ErrValidation)
	}
	if p.CustomerName != nil && strings.TrimSpace(*p.CustomerName) == "" {
		return models.ServiceRecord{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if p.Price != nil && *p.Price < 0 {
		return models.ServiceRecord{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if p.ServiceType != nil && !p.ServiceType.Valid() {
		return models.ServiceRecord{}, fmt.Errorf("%w: unknown service type %q", ErrValidation, *p.ServiceType)
	}
	if p.Status != nil && !p.Status.Valid() {
		return models.ServiceRecord{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.serviceIndexLocked(id)
	if i < 0 {
		return models.ServiceRecord{}, ErrServiceNotFound
	}
	rec := s.services[i]
	customersChanged := false

	if p.Plate != nil {
		rec.Plate = NormalizePlate(*p.Plate)
	}
	if p.CustomerName != nil {
		rec.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.Phone != nil {
		rec.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.ServiceType != nil {
		rec.ServiceType = *p.ServiceType
	}
	if p.Notes != nil {
		rec.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Price != nil && *p.Price != rec.Price {
		delta := *p.Price - rec.Price
		rec.Price = *p.Price
		if c := s.customerIndexLocked(rec.CustomerID); c >= 0 {
			s.customers[c].TotalSpent += delta
			customersChanged = true
		}
	}
	if p.Status != nil && *p.Status != rec.Status {
		if s.applyStatusLocked(&rec, *p.Status) {
			customersChanged = true
		}
	}

	s.services[i] = rec
	if customersChanged {
		s.persistLocked(ctx, persistence.SlotServices, persistence.SlotCustomers)
	} else {
		s.persistLocked(ctx, persistence.SlotServices)
	}
	return rec, nil
}

// Services returns a copy of every ticket, most recent first.
func (s *Store) Services() []models.ServiceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ServiceRecord, len(s.services))
	copy(out, s.services)
	return out
}

// Service looks up one ticket.
func (s *Store) Service(id string) (models.ServiceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.serviceIndexLocked(id)
	if i < 0 {
		return models.ServiceRecord{}, false
	}
	return s.services[i], true
}

// SearchServices matches id, customer name or plate, case-insensitively. An
// empty query returns everything.
func (s *Store) SearchServices(q string) []models.ServiceRecord {
	q = strings.ToLower(strings.TrimSpace(q))
	all := s.Services()
	if q == "" {
		return all
	}
	out := make([]models.ServiceRecord, 0, len(all))
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.CustomerName), q) ||
			strings.Contains(strings.ToLower(rec.Plate), q) ||
			strings.Contains(strings.ToLower(rec.ID), q) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) serviceIndexLocked(id string) int {
	for i := range s.services {
		if s.services[i].ID == id {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

type CustomerInput struct {
	Name        string
	Phone       string
	Plate       string
	TotalVisits int
	TotalSpent  float64
	HasDebt     bool
}

// AddCustomer creates a customer directly, outside of service intake.
func (s *Store) AddCustomer(ctx context.Context, in CustomerInput) (models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Customer{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.TotalVisits < 0 || in.TotalSpent < 0 {
		return models.Customer{}, fmt.Errorf("%w: totals must not be negative", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Customer{
		ID:          newCustomerID(),
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Plate:       NormalizePlate(in.Plate),
		TotalVisits: in.TotalVisits,
		TotalSpent:  in.TotalSpent,
		HasDebt:     in.HasDebt,
	}
	s.customers = append([]models.Customer{c}, s.customers...)
	s.persistLocked(ctx, persistence.SlotCustomers)
	return c, nil
}

// RemoveCustomer deletes a customer record. Tickets are not touched.
func (s *Store) RemoveCustomer(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.customerIndexLocked(id)
	if i < 0 {
		return false
	}
	s.customers = append(s.customers[:i:i], s.customers[i+1:]...)
	s.persistLocked(ctx, persistence.SlotCustomers)
	return true
}

func (s *Store) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Store) Customer(id string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.customerIndexLocked(id)
	if i < 0 {
		return models.Customer{}, false
	}
	return s.customers[i], true
}

// SearchCustomers matches name or plate, case-insensitively.
func (s *Store) SearchCustomers(q string) []models.Customer {
	q = strings.ToLower(strings.TrimSpace(q))
	all := s.Customers()
	if q == "" {
		return all
	}
	out := make([]models.Customer, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Plate), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) customerIndexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}
