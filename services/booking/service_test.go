package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	bookingRepo "solace/database/repository/booking"
	"solace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- in-memory fakes ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) windowKey(b *models.Booking) string {
	return fmt.Sprintf("%s|%s|%s|%s", b.PsychologistID, b.SlotDate, b.SlotStartTime, b.SlotEndTime)
}

func (r *fakeBookingRepo) hasActiveWindow(b *models.Booking, excludeID string) bool {
	for _, other := range r.bookings {
		if other.ID == b.ID || other.ID == excludeID || !other.Active {
			continue
		}
		if r.windowKey(other) == r.windowKey(b) {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Active && r.hasActiveWindow(b, "") {
		return bookingRepo.ErrDuplicateSlot
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return fmt.Errorf("booking %s not found", b.ID)
	}
	if b.Active && r.hasActiveWindow(b, "") {
		return bookingRepo.ErrDuplicateSlot
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) FindActiveByWindow(ctx context.Context, psychologistID, date, start, end, excludeID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if !b.Active || b.ID == excludeID {
			continue
		}
		if b.PsychologistID == psychologistID && b.SlotDate == date && b.SlotStartTime == start && b.SlotEndTime == end {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ConfirmPayment(ctx context.Context, bookingID, paymentID, signature string) (*models.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, false, fmt.Errorf("booking %s not found", bookingID)
	}
	if b.Status != models.BookingStatusPending {
		clone := *b
		return &clone, false, nil
	}
	b.Status = models.BookingStatusConfirmed
	b.PaymentStatus = models.PaymentStatusPaid
	b.RazorpayPaymentID = paymentID
	b.RazorpaySignature = signature
	clone := *b
	return &clone, true, nil
}

func (r *fakeBookingRepo) MarkPaymentFailed(ctx context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	b.PaymentStatus = models.PaymentStatusFailed
	return nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string, page, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByPsychologist(ctx context.Context, psychologistID string, page, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PsychologistID == psychologistID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountActiveForSlot(ctx context.Context, psychologistID, date, start, end string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Active && b.PsychologistID == psychologistID && b.SlotDate == date && b.SlotStartTime == start && b.SlotEndTime == end {
			n++
		}
	}
	return n, nil
}

type fakePsychRepo struct {
	mu            sync.Mutex
	psychologists map[string]*models.Psychologist
	sessionCounts map[string]int
}

func newFakePsychRepo(ps ...*models.Psychologist) *fakePsychRepo {
	r := &fakePsychRepo{
		psychologists: make(map[string]*models.Psychologist),
		sessionCounts: make(map[string]int),
	}
	for _, p := range ps {
		r.psychologists[p.ID] = p
	}
	return r
}

func (r *fakePsychRepo) Create(ctx context.Context, p *models.Psychologist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.psychologists[p.ID] = p
	return nil
}

func (r *fakePsychRepo) Update(ctx context.Context, p *models.Psychologist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.psychologists[p.ID] = p
	return nil
}

func (r *fakePsychRepo) GetByID(ctx context.Context, id string) (*models.Psychologist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.psychologists[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakePsychRepo) GetByEmail(ctx context.Context, email string) (*models.Psychologist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.psychologists {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePsychRepo) AddScheduleSlots(ctx context.Context, id string, slots []models.ScheduleSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.psychologists[id]
	if !ok {
		return fmt.Errorf("psychologist %s not found", id)
	}
	p.Schedule = append(p.Schedule, slots...)
	return nil
}

func (r *fakePsychRepo) RemoveScheduleSlot(ctx context.Context, id, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.psychologists[id]
	if !ok {
		return fmt.Errorf("psychologist %s not found", id)
	}
	out := p.Schedule[:0]
	for _, s := range p.Schedule {
		if s.ID != slotID {
			out = append(out, s)
		}
	}
	p.Schedule = out
	return nil
}

func (r *fakePsychRepo) SetSlotAvailability(ctx context.Context, id, date, start, end string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.psychologists[id]
	if !ok {
		return fmt.Errorf("psychologist %s not found", id)
	}
	for i := range p.Schedule {
		s := &p.Schedule[i]
		if s.Date == date && s.StartTime == start && s.EndTime == end {
			s.IsAvailable = available
		}
	}
	return nil
}

func (r *fakePsychRepo) IncrementTotalSessions(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionCounts[id]++
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error { r.users[u.ID] = u; return nil }
func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error { r.users[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.users[id], nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	fail bool
}

func (n *fakeNotifier) Create(ctx context.Context, notif models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	n.sent = append(n.sent, notif)
	return nil
}

func (n *fakeNotifier) count(notifType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var c int
	for _, s := range n.sent {
		if s.Type == notifType {
			c++
		}
	}
	return c
}

// fakePayments verifies signatures against a fixed secret, like the real
// bridge, but mints order ids locally.
type fakePayments struct {
	secret string
	orders int
}

func (p *fakePayments) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*models.PaymentOrder, error) {
	p.orders++
	return &models.PaymentOrder{
		OrderID:  fmt.Sprintf("order_%d", p.orders),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (p *fakePayments) VerifySignature(orderID, paymentID, signature string) bool {
	return ExpectedSignature(p.secret, orderID, paymentID) == signature
}

const testSecret = "test_key_secret"

func testPsychologist() *models.Psychologist {
	return &models.Psychologist{
		ID:          "psy-1",
		Name:        "Dr. Mehta",
		Email:       "mehta@example.com",
		SessionRate: 2000,
		Status:      models.PsychologistStatusSelected,
		Active:      true,
		Schedule: []models.ScheduleSlot{
			{ID: "slot-1", Date: "2026-09-10", Day: "Thu", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
			{ID: "slot-2", Date: "2026-09-10", Day: "Thu", StartTime: "11:00", EndTime: "12:00", IsAvailable: true},
			{ID: "slot-3", Date: "2026-09-11", Day: "Fri", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		},
	}
}

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *fakePsychRepo, *fakeNotifier) {
	repo := newFakeBookingRepo()
	psychRepo := newFakePsychRepo(testPsychologist())
	notifier := &fakeNotifier{}
	svc := &DefaultBookingService{
		Repo:      repo,
		PsychRepo: psychRepo,
		UserRepo:  &fakeUserRepo{users: map[string]*models.User{"user-1": {ID: "user-1", Name: "Asha", Email: "asha@example.com"}}},
		Payments:  &fakePayments{secret: testSecret},
		Notifier:  notifier,
		Logger:    zap.NewNop(),

		DefaultRate: 1500,
		Currency:    "INR",
	}
	return svc, repo, psychRepo, notifier
}

func createConfirmed(t *testing.T, svc *DefaultBookingService) *models.Booking {
	t.Helper()
	ctx := context.Background()
	result, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
		PsychologistID: "psy-1",
		SlotDate:       "2026-09-10",
		SlotStartTime:  "10:00",
		SlotEndTime:    "11:00",
	})
	require.NoError(t, err)

	paymentID := "pay_1"
	confirmed, err := svc.VerifyPayment(ctx, VerifyPaymentRequest{
		BookingID:         result.Booking.ID,
		RazorpayOrderID:   result.Order.OrderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: ExpectedSignature(testSecret, result.Order.OrderID, paymentID),
	})
	require.NoError(t, err)
	return confirmed
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves a declared slot and opens an order", func(t *testing.T) {
		svc, _, psychRepo, _ := newTestService()

		result, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
			Notes:          "first session",
		})
		require.NoError(t, err)

		b := result.Booking
		assert.Equal(t, models.BookingStatusPending, b.Status)
		assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
		assert.Equal(t, models.SessionStatusPending, b.SessionStatus)
		assert.True(t, b.Active)
		assert.Equal(t, float64(2000), b.SessionRate)
		assert.Equal(t, b.RazorpayOrderID, result.Order.OrderID)
		assert.Equal(t, int64(200000), result.Order.Amount)
		assert.Equal(t, "INR", result.Order.Currency)

		// The declared slot is marked consumed.
		p, _ := psychRepo.GetByID(ctx, "psy-1")
		assert.False(t, p.Schedule[0].IsAvailable)
	})

	t.Run("rejects a window the psychologist never declared", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		_, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:30",
			SlotEndTime:    "11:30",
		})
		require.Error(t, err)
		assert.Equal(t, 400, StatusOf(err))
	})

	t.Run("rejects a second booking for the same window", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		req := CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		}
		_, err := svc.CreateBooking(ctx, "user-1", req)
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, "user-2", req)
		require.Error(t, err)
		assert.Equal(t, 409, StatusOf(err))
	})

	t.Run("falls back to the platform default rate", func(t *testing.T) {
		svc, _, psychRepo, _ := newTestService()
		p, _ := psychRepo.GetByID(ctx, "psy-1")
		p.SessionRate = 0

		result, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-11",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		})
		require.NoError(t, err)
		assert.Equal(t, float64(1500), result.Booking.SessionRate)
		assert.Equal(t, int64(150000), result.Order.Amount)
	})

	t.Run("fractional rates round to the nearest minor unit", func(t *testing.T) {
		svc, _, psychRepo, _ := newTestService()
		p, _ := psychRepo.GetByID(ctx, "psy-1")
		p.SessionRate = 1999.99

		result, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(199999), result.Order.Amount)
	})

	t.Run("rejects an unknown or unapproved psychologist", func(t *testing.T) {
		svc, _, psychRepo, _ := newTestService()

		_, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "nope",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		})
		assert.Equal(t, 404, StatusOf(err))

		p, _ := psychRepo.GetByID(ctx, "psy-1")
		p.Status = models.PsychologistStatusApplied
		_, err = svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		})
		assert.Equal(t, 404, StatusOf(err))
	})

	t.Run("rejects oversize notes and malformed windows", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		long := make([]byte, maxNotesLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
			Notes:          string(long),
		})
		assert.Equal(t, 400, StatusOf(err))

		_, err = svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "11:00",
			SlotEndTime:    "10:00",
		})
		assert.Equal(t, 400, StatusOf(err))
	})
}

func TestCreateBookingConcurrentWindow(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	// N patients race for the same window; exactly one reservation may land,
	// everyone else gets a conflict.
	const racers = 16
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, fmt.Sprintf("user-%d", i), CreateBookingRequest{
				PsychologistID: "psy-1",
				SlotDate:       "2026-09-10",
				SlotStartTime:  "10:00",
				SlotEndTime:    "11:00",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		lost++
		assert.Equal(t, 409, StatusOf(err))
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, racers-1, lost)
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc *DefaultBookingService) *models.BookingWithOrder {
		t.Helper()
		result, err := svc.CreateBooking(ctx, "user-1", CreateBookingRequest{
			PsychologistID: "psy-1",
			SlotDate:       "2026-09-10",
			SlotStartTime:  "10:00",
			SlotEndTime:    "11:00",
		})
		require.NoError(t, err)
		return result
	}

	t.Run("valid signature confirms and increments the session counter once", func(t *testing.T) {
		svc, _, psychRepo, notifier := newTestService()
		result := create(t, svc)

		req := VerifyPaymentRequest{
			BookingID:         result.Booking.ID,
			RazorpayOrderID:   result.Order.OrderID,
			RazorpayPaymentID: "pay_42",
			RazorpaySignature: ExpectedSignature(testSecret, result.Order.OrderID, "pay_42"),
		}
		b, err := svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, b.Status)
		assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
		assert.Equal(t, "pay_42", b.RazorpayPaymentID)
		assert.Equal(t, 1, psychRepo.sessionCounts["psy-1"])
		assert.Equal(t, 2, notifier.count("booking_confirmed"))

		// Retried verification is idempotent: same booking back, no second
		// increment, no duplicate notifications.
		again, err := svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, again.Status)
		assert.Equal(t, 1, psychRepo.sessionCounts["psy-1"])
		assert.Equal(t, 2, notifier.count("booking_confirmed"))
	})

	t.Run("bad signature flags payment failed and keeps the booking pending", func(t *testing.T) {
		svc, repo, psychRepo, _ := newTestService()
		result := create(t, svc)

		_, err := svc.VerifyPayment(ctx, VerifyPaymentRequest{
			BookingID:         result.Booking.ID,
			RazorpayOrderID:   result.Order.OrderID,
			RazorpayPaymentID: "pay_42",
			RazorpaySignature: "forged",
		})
		require.Error(t, err)
		assert.Equal(t, 400, StatusOf(err))

		stored, _ := repo.GetByID(ctx, result.Booking.ID)
		assert.Equal(t, models.BookingStatusPending, stored.Status)
		assert.Equal(t, models.PaymentStatusFailed, stored.PaymentStatus)
		assert.Equal(t, 0, psychRepo.sessionCounts["psy-1"])
	})

	t.Run("bad signature against a settled booking leaves it untouched", func(t *testing.T) {
		svc, repo, psychRepo, _ := newTestService()
		confirmed := createConfirmed(t, svc)

		// Any authenticated user could replay the booking and order ids with
		// a junk signature; the settled payment state must survive it.
		_, err := svc.VerifyPayment(ctx, VerifyPaymentRequest{
			BookingID:         confirmed.ID,
			RazorpayOrderID:   confirmed.RazorpayOrderID,
			RazorpayPaymentID: "pay_evil",
			RazorpaySignature: "forged",
		})
		require.Error(t, err)
		assert.Equal(t, 400, StatusOf(err))

		stored, _ := repo.GetByID(ctx, confirmed.ID)
		assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
		assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
		assert.Equal(t, 1, psychRepo.sessionCounts["psy-1"])

		// Refund bookkeeping still works on a later cancellation.
		cancelled, err := svc.CancelBooking(ctx, Caller{ID: "user-1", Role: models.RoleUser}, confirmed.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
	})

	t.Run("order id must belong to the booking", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		result := create(t, svc)

		_, err := svc.VerifyPayment(ctx, VerifyPaymentRequest{
			BookingID:         result.Booking.ID,
			RazorpayOrderID:   "order_other",
			RazorpayPaymentID: "pay_42",
			RazorpaySignature: ExpectedSignature(testSecret, "order_other", "pay_42"),
		})
		require.Error(t, err)
		assert.Equal(t, 400, StatusOf(err))
	})

	t.Run("unknown booking is a 404", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.VerifyPayment(ctx, VerifyPaymentRequest{
			BookingID:         "missing",
			RazorpayOrderID:   "order_1",
			RazorpayPaymentID: "pay_1",
			RazorpaySignature: "sig",
		})
		assert.Equal(t, 404, StatusOf(err))
	})
}
