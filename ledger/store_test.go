package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carwash-backend/ledger"
	"carwash-backend/metrics"
	"carwash-backend/models"
	"carwash-backend/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC)

// newEmptyStore returns a store over a gateway whose slots exist but are empty,
// so nothing is seeded.
func newEmptyStore(t *testing.T) (*ledger.Store, *persistence.Memory) {
	t.Helper()
	ctx := context.Background()
	gw := persistence.NewMemory()
	require.NoError(t, gw.Save(ctx, persistence.SlotServices, []models.ServiceRecord{}))
	require.NoError(t, gw.Save(ctx, persistence.SlotCustomers, []models.Customer{}))
	require.NoError(t, gw.Save(ctx, persistence.SlotConversations, []models.Conversation{}))

	store, err := ledger.New(ctx, gw, ledger.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return store, gw
}

func price(v float64) *float64 { return &v }

func add(t *testing.T, s *ledger.Store, name, plate string, p float64) (models.ServiceRecord, ledger.Attribution) {
	t.Helper()
	rec, attr, err := s.AddService(context.Background(), ledger.ServiceInput{
		Plate:        plate,
		CustomerName: name,
		ServiceType:  models.ServicePremium,
		Price:        price(p),
	})
	require.NoError(t, err)
	return rec, attr
}

// =============================================================================
// LOADING
// =============================================================================

func TestNew_SeedsMissingSlots(t *testing.T) {
	gw := persistence.NewMemory()
	store, err := ledger.New(context.Background(), gw)
	require.NoError(t, err)

	assert.Equal(t, models.SampleServices(), store.Services())
	assert.Equal(t, models.SampleCustomers(), store.Customers())
	assert.Len(t, store.Conversations(), 2)

	for _, slot := range []string{persistence.SlotServices, persistence.SlotCustomers, persistence.SlotConversations} {
		_, ok := gw.Raw(slot)
		assert.True(t, ok, "slot %s should be persisted after seeding", slot)
	}
}

func TestNew_LoadsExistingSlots(t *testing.T) {
	ctx := context.Background()
	gw := persistence.NewMemory()
	services := []models.ServiceRecord{{ID: "TKT-1", Plate: "AAA-111", CustomerName: "Ana", Price: 10, Status: models.StatusReady}}
	require.NoError(t, gw.Save(ctx, persistence.SlotServices, services))

	store, err := ledger.New(ctx, gw)
	require.NoError(t, err)

	assert.Equal(t, services, store.Services())
	assert.Equal(t, 1, gw.Saves(persistence.SlotServices), "existing slot must not be rewritten")
	assert.Equal(t, models.SampleCustomers(), store.Customers())
}

// =============================================================================
// INTAKE
// =============================================================================

func TestAddService_Defaults(t *testing.T) {
	store, _ := newEmptyStore(t)

	rec, attr, err := store.AddService(context.Background(), ledger.ServiceInput{
		Plate:        "  abc-123 ",
		CustomerName: "Carlos",
		ServiceType:  models.ServiceWax,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^TKT-[0-9A-Z]+$`, rec.ID)
	assert.Equal(t, "ABC-123", rec.Plate)
	assert.Equal(t, models.StatusWaiting, rec.Status)
	assert.Equal(t, 60.0, rec.Price)
	assert.Equal(t, "02:30 PM", rec.EntryTime)
	assert.Equal(t, attr.CustomerID, rec.CustomerID)
	assert.True(t, attr.Created)
}

func TestAddService_ExplicitZeroPriceKept(t *testing.T) {
	store, _ := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos", "ABC-123", 0)
	assert.Equal(t, 0.0, rec.Price)
}

func TestAddService_ValidationWritesNothing(t *testing.T) {
	store, gw := newEmptyStore(t)
	before := gw.Saves(persistence.SlotServices)

	cases := map[string]ledger.ServiceInput{
		"missing plate": {CustomerName: "Carlos"},
		"missing name":  {Plate: "ABC-123"},
		"negative":      {Plate: "ABC-123", CustomerName: "Carlos", Price: price(-1)},
		"unknown type":  {Plate: "ABC-123", CustomerName: "Carlos", ServiceType: "POLISH"},
		"unknown state": {Plate: "ABC-123", CustomerName: "Carlos", Status: "PARKED"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := store.AddService(context.Background(), in)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}

	assert.Empty(t, store.Services())
	assert.Empty(t, store.Customers())
	assert.Equal(t, before, gw.Saves(persistence.SlotServices))
}

func TestAddService_MostRecentFirst(t *testing.T) {
	store, _ := newEmptyStore(t)
	first, _ := add(t, store, "Carlos", "ABC-123", 45)
	second, _ := add(t, store, "Ana", "XYZ-789", 25)

	services := store.Services()
	require.Len(t, services, 2)
	assert.Equal(t, second.ID, services[0].ID)
	assert.Equal(t, first.ID, services[1].ID)
}

// =============================================================================
// ATTRIBUTION
// =============================================================================

func TestAttribution_SameIdentityAccumulates(t *testing.T) {
	// GIVEN: Two visits by the same name and plate
	// WHEN: Both are recorded
	// THEN: One customer with both visits and the summed spend
	store, _ := newEmptyStore(t)
	_, a1 := add(t, store, "Carlos", "ABC-123", 45)
	_, a2 := add(t, store, "Carlos", "ABC-123", 25)

	customers := store.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, 2, customers[0].TotalVisits)
	assert.Equal(t, 70.0, customers[0].TotalSpent)
	assert.False(t, customers[0].HasDebt)
	assert.Equal(t, a1.CustomerID, a2.CustomerID)
	assert.False(t, a2.Created)
	assert.False(t, a2.Merged)
}

func TestAttribution_OrMatchMerges(t *testing.T) {
	// GIVEN: A customer "Carlos" with ABC-123
	// WHEN: "Carlos" comes back in a different car, then someone else brings ABC-123
	// THEN: Both visits land on the first customer and are flagged as merges
	store, _ := newEmptyStore(t)
	_, first := add(t, store, "Carlos", "ABC-123", 45)
	_, byName := add(t, store, "Carlos", "QQQ-999", 25)
	_, byPlate := add(t, store, "Lucia", "ABC-123", 60)

	customers := store.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, 3, customers[0].TotalVisits)
	assert.Equal(t, 130.0, customers[0].TotalSpent)
	assert.Equal(t, "ABC-123", customers[0].Plate, "matched customer keeps its fields")

	assert.Equal(t, first.CustomerID, byName.CustomerID)
	assert.Equal(t, first.CustomerID, byPlate.CustomerID)
	assert.True(t, byName.Merged)
	assert.True(t, byPlate.Merged)
}

func TestAttribution_OldestCustomerWinsOrMatch(t *testing.T) {
	// GIVEN: Ana with AAA-111 and then Bob with BBB-222, both created at intake
	// WHEN: Bob comes in driving AAA-111
	// THEN: Ana, created first, gets the visit
	store, _ := newEmptyStore(t)
	_, ana := add(t, store, "Ana", "AAA-111", 25)
	_, bob := add(t, store, "Bob", "BBB-222", 25)
	_, third := add(t, store, "Bob", "AAA-111", 45)

	assert.Equal(t, ana.CustomerID, third.CustomerID)
	assert.True(t, third.Merged)

	customers := store.Customers()
	require.Len(t, customers, 2)
	assert.Equal(t, ana.CustomerID, customers[0].ID)
	assert.Equal(t, bob.CustomerID, customers[1].ID)

	got, _ := store.Customer(ana.CustomerID)
	assert.Equal(t, 2, got.TotalVisits)
	assert.Equal(t, 70.0, got.TotalSpent)
	other, _ := store.Customer(bob.CustomerID)
	assert.Equal(t, 1, other.TotalVisits)
}

func TestAttribution_ManualCustomerGoesFirst(t *testing.T) {
	store, _ := newEmptyStore(t)
	add(t, store, "Ana", "AAA-111", 25)

	manual, err := store.AddCustomer(context.Background(), ledger.CustomerInput{Name: "Rosa", Plate: "RRR-333"})
	require.NoError(t, err)

	customers := store.Customers()
	require.Len(t, customers, 2)
	assert.Equal(t, manual.ID, customers[0].ID)
}

func TestAttribution_DistinctIdentities(t *testing.T) {
	store, _ := newEmptyStore(t)
	add(t, store, "Carlos", "ABC-123", 45)
	add(t, store, "Ana", "XYZ-789", 25)

	customers := store.Customers()
	require.Len(t, customers, 2)
	for _, c := range customers {
		assert.Equal(t, 1, c.TotalVisits)
	}
}

func TestAttribution_ExplicitCustomerID(t *testing.T) {
	// GIVEN: Two customers that both OR-match the next ticket
	// WHEN: Intake names the second one explicitly
	// THEN: The visit goes to that customer only
	store, _ := newEmptyStore(t)
	_, carlos := add(t, store, "Carlos", "ABC-123", 45)
	_, ana := add(t, store, "Ana", "XYZ-789", 25)

	rec, attr, err := store.AddService(context.Background(), ledger.ServiceInput{
		Plate:        "ABC-123",
		CustomerName: "Ana",
		Price:        price(10),
		CustomerID:   ana.CustomerID,
	})
	require.NoError(t, err)
	assert.Equal(t, ana.CustomerID, attr.CustomerID)
	assert.Equal(t, ana.CustomerID, rec.CustomerID)
	assert.False(t, attr.Merged)

	got, ok := store.Customer(ana.CustomerID)
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalVisits)
	assert.Equal(t, 35.0, got.TotalSpent)

	other, _ := store.Customer(carlos.CustomerID)
	assert.Equal(t, 1, other.TotalVisits)
}

func TestAttribution_UnknownCustomerIDFallsBack(t *testing.T) {
	store, _ := newEmptyStore(t)
	_, first := add(t, store, "Carlos", "ABC-123", 45)

	_, attr, err := store.AddService(context.Background(), ledger.ServiceInput{
		Plate:        "ABC-123",
		CustomerName: "Carlos",
		Price:        price(5),
		CustomerID:   "C-NOPE",
	})
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, attr.CustomerID)
}

// =============================================================================
// REMOVAL AND EDITS
// =============================================================================

func TestRemoveService_LeavesCustomersUntouched(t *testing.T) {
	ctx := context.Background()
	store, gw := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos", "ABC-123", 45)
	add(t, store, "Carlos", "ABC-123", 25)

	beforeRaw, ok := gw.Raw(persistence.SlotCustomers)
	require.True(t, ok)
	beforeJSON, err := json.Marshal(store.Customers())
	require.NoError(t, err)

	assert.True(t, store.RemoveService(ctx, rec.ID))

	afterRaw, _ := gw.Raw(persistence.SlotCustomers)
	afterJSON, err := json.Marshal(store.Customers())
	require.NoError(t, err)
	assert.Equal(t, beforeRaw, afterRaw)
	assert.Equal(t, beforeJSON, afterJSON)
	assert.Len(t, store.Services(), 1)
}

func TestRemoveService_MissIsNoop(t *testing.T) {
	store, gw := newEmptyStore(t)
	add(t, store, "Carlos", "ABC-123", 45)
	saves := gw.Saves(persistence.SlotServices)

	assert.False(t, store.RemoveService(context.Background(), "TKT-NOPE"))
	assert.Len(t, store.Services(), 1)
	assert.Equal(t, saves, gw.Saves(persistence.SlotServices))
}

func TestUpdateService_InPlaceDoesNotDoubleCount(t *testing.T) {
	// GIVEN: One ticket at 45
	// WHEN: The ticket is edited twice, ending at price 60
	// THEN: Still one visit, spend follows the price, id and entry time unchanged
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, attr := add(t, store, "Carlos", "ABC-123", 45)

	notes := "windows too"
	_, err := store.UpdateService(ctx, rec.ID, ledger.ServicePatch{Notes: &notes})
	require.NoError(t, err)
	updated, err := store.UpdateService(ctx, rec.ID, ledger.ServicePatch{Price: price(60)})
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, rec.EntryTime, updated.EntryTime)
	assert.Equal(t, "windows too", updated.Notes)
	assert.Equal(t, 60.0, updated.Price)

	c, ok := store.Customer(attr.CustomerID)
	require.True(t, ok)
	assert.Equal(t, 1, c.TotalVisits)
	assert.Equal(t, 60.0, c.TotalSpent)
	assert.Len(t, store.Services(), 1)
}

func TestUpdateService_NameChangeKeepsAttribution(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, attr := add(t, store, "Carlos", "ABC-123", 45)

	name := "Carlos M."
	updated, err := store.UpdateService(ctx, rec.ID, ledger.ServicePatch{CustomerName: &name})
	require.NoError(t, err)
	assert.Equal(t, attr.CustomerID, updated.CustomerID)
	assert.Len(t, store.Customers(), 1)
}

func TestUpdateService_Errors(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos", "ABC-123", 45)

	_, err := store.UpdateService(ctx, "TKT-NOPE", ledger.ServicePatch{})
	assert.ErrorIs(t, err, ledger.ErrServiceNotFound)

	empty := " "
	_, err = store.UpdateService(ctx, rec.ID, ledger.ServicePatch{Plate: &empty})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	bad := models.ServiceStatus("PARKED")
	_, err = store.UpdateService(ctx, rec.ID, ledger.ServicePatch{Status: &bad})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

// =============================================================================
// CUSTOMERS, SEARCH, RESET
// =============================================================================

func TestCustomerCRUD_IndependentOfServices(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, attr := add(t, store, "Carlos", "ABC-123", 45)

	c, err := store.AddCustomer(ctx, ledger.CustomerInput{Name: "Rosa", Plate: "qwe-111", HasDebt: true})
	require.NoError(t, err)
	assert.Equal(t, "QWE-111", c.Plate)
	assert.True(t, c.HasDebt)

	_, err = store.AddCustomer(ctx, ledger.CustomerInput{Name: " "})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	assert.True(t, store.RemoveCustomer(ctx, attr.CustomerID))
	assert.False(t, store.RemoveCustomer(ctx, attr.CustomerID))

	_, ok := store.Service(rec.ID)
	assert.True(t, ok, "removing a customer keeps its tickets")
	assert.Len(t, store.Customers(), 1)
}

func TestSearch(t *testing.T) {
	store, _ := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos Mendoza", "ABC-123", 45)
	add(t, store, "Ana Torres", "XYZ-789", 25)

	assert.Len(t, store.SearchServices(""), 2)
	assert.Len(t, store.SearchServices("mendoza"), 1)
	assert.Len(t, store.SearchServices("xyz"), 1)
	assert.Len(t, store.SearchServices(rec.ID), 1)
	assert.Empty(t, store.SearchServices("nobody"))

	assert.Len(t, store.SearchCustomers("ana"), 1)
	assert.Len(t, store.SearchCustomers("abc-123"), 1)
}

func TestReset_RestoresSampleData(t *testing.T) {
	ctx := context.Background()
	store, gw := newEmptyStore(t)
	add(t, store, "Carlos", "ABC-123", 45)

	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, models.SampleServices(), store.Services())
	assert.Equal(t, models.SampleCustomers(), store.Customers())

	var persisted []models.ServiceRecord
	found, err := gw.Load(ctx, persistence.SlotServices, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.SampleServices(), persisted)
}

// =============================================================================
// PERSISTENCE FAILURES
// =============================================================================

type failingGateway struct {
	*persistence.Memory
	fail bool
}

func (g *failingGateway) Save(ctx context.Context, key string, value any) error {
	if g.fail {
		return errors.New("disk full")
	}
	return g.Memory.Save(ctx, key, value)
}

func TestPersistFailure_DoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	gw := &failingGateway{Memory: persistence.NewMemory()}
	store, err := ledger.New(ctx, gw)
	require.NoError(t, err)

	gw.fail = true
	rec, _, err := store.AddService(ctx, ledger.ServiceInput{Plate: "ABC-999", CustomerName: "Rosa"})
	require.NoError(t, err)

	_, ok := store.Service(rec.ID)
	assert.True(t, ok, "in-memory state stays authoritative")
}

// =============================================================================
// WORKFLOW
// =============================================================================

func TestWorkflow_MetricDeltas(t *testing.T) {
	// GIVEN: An empty board
	// WHEN: A ticket at 45 is walked WAITING -> IN_PROCESS -> READY -> DELIVERED
	// THEN: The snapshot moves as the ticket does
	ctx := context.Background()
	store, _ := newEmptyStore(t)

	rec, _ := add(t, store, "Carlos", "ABC-123", 45)
	snap := metrics.Compute(store.Services())
	assert.Equal(t, 1, snap.CarsInProcess)
	assert.Equal(t, 0, snap.CarsReady)
	assert.Equal(t, 0.0, snap.RevenueToday)

	_, err := store.Start(ctx, rec.ID)
	require.NoError(t, err)
	snap = metrics.Compute(store.Services())
	assert.Equal(t, 1, snap.CarsInProcess)
	assert.Equal(t, 0.0, snap.RevenueToday)

	_, err = store.Finish(ctx, rec.ID)
	require.NoError(t, err)
	snap = metrics.Compute(store.Services())
	assert.Equal(t, 0, snap.CarsInProcess)
	assert.Equal(t, 1, snap.CarsReady)
	assert.Equal(t, 45.0, snap.RevenueToday)

	delivered, err := store.Deliver(ctx, rec.ID)
	require.NoError(t, err)
	snap = metrics.Compute(store.Services())
	assert.Equal(t, 0, snap.CarsReady)
	assert.Equal(t, 45.0, snap.RevenueToday)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.Equal(t, "02:30 PM", delivered.ExitTime)
}

func TestTransitions_InvalidSource(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos", "ABC-123", 45)

	_, err := store.Finish(ctx, rec.ID)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
	_, err = store.Deliver(ctx, rec.ID)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
	_, err = store.Start(ctx, "TKT-NOPE")
	assert.ErrorIs(t, err, ledger.ErrServiceNotFound)
	_, err = store.Apply(ctx, rec.ID, ledger.Action("wash"))
	assert.ErrorIs(t, err, ledger.ErrValidation)

	got, _ := store.Service(rec.ID)
	assert.Equal(t, models.StatusWaiting, got.Status)
}

func TestSetStatus_BypassesGuidedPath(t *testing.T) {
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	rec, _ := add(t, store, "Carlos", "ABC-123", 45)

	got, err := store.SetStatus(ctx, rec.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)

	got, err = store.SetStatus(ctx, rec.ID, models.StatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, got.Status)

	_, err = store.SetStatus(ctx, rec.ID, "PARKED")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestDebtFlag_FollowsDebtTickets(t *testing.T) {
	// GIVEN: A customer with two tickets
	// WHEN: Tickets move in and out of DEBT
	// THEN: hasDebt is true while any of them owes
	ctx := context.Background()
	store, _ := newEmptyStore(t)
	first, attr := add(t, store, "Carlos", "ABC-123", 45)
	second, _ := add(t, store, "Carlos", "ABC-123", 25)

	_, err := store.SetStatus(ctx, first.ID, models.StatusDebt)
	require.NoError(t, err)
	debt := models.StatusDebt
	_, err = store.UpdateService(ctx, second.ID, ledger.ServicePatch{Status: &debt})
	require.NoError(t, err)
	c, _ := store.Customer(attr.CustomerID)
	assert.True(t, c.HasDebt)

	_, err = store.SetStatus(ctx, first.ID, models.StatusDelivered)
	require.NoError(t, err)
	c, _ = store.Customer(attr.CustomerID)
	assert.True(t, c.HasDebt, "second ticket still owes")

	_, err = store.SetStatus(ctx, second.ID, models.StatusDelivered)
	require.NoError(t, err)
	c, _ = store.Customer(attr.CustomerID)
	assert.False(t, c.HasDebt)
}

func TestDebtFlag_IntakeInDebt(t *testing.T) {
	store, _ := newEmptyStore(t)
	_, attr, err := store.AddService(context.Background(), ledger.ServiceInput{
		Plate:        "ABC-123",
		CustomerName: "Carlos",
		Status:       models.StatusDebt,
	})
	require.NoError(t, err)

	c, _ := store.Customer(attr.CustomerID)
	assert.True(t, c.HasDebt)
	assert.Equal(t, 1, metrics.Compute(store.Services()).DebtCount)
}

func TestNext(t *testing.T) {
	a, ok := ledger.Next(models.StatusReady)
	assert.True(t, ok)
	assert.Equal(t, ledger.ActionDeliver, a)

	_, ok = ledger.Next(models.StatusDelivered)
	assert.False(t, ok)
}
