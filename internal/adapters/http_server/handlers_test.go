package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	httpserver "frontdesk/internal/adapters/http_server"
	"frontdesk/internal/app"
	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
)

// ---- fakes ----

type memRepo struct {
	rooms    map[int64]*domain.Room
	bookings map[string]*domain.Booking
}

func newMemRepo(rooms ...domain.Room) *memRepo {
	m := &memRepo{rooms: map[int64]*domain.Room{}, bookings: map[string]*domain.Booking{}}
	for _, r := range rooms {
		rc := r
		m.rooms[r.ID] = &rc
	}
	return m
}

func (m *memRepo) UpsertRoom(ctx context.Context, r domain.Room) error {
	rc := r
	m.rooms[r.ID] = &rc
	return nil
}

func (m *memRepo) BookRoom(ctx context.Context, id int64) error {
	r, ok := m.rooms[id]
	if !ok || r.Availability != domain.RoomAvailable {
		return domain.ErrRoomConflict
	}
	r.Availability = domain.RoomBooked
	return nil
}

func (m *memRepo) ReleaseRoom(ctx context.Context, id int64) error {
	if r, ok := m.rooms[id]; ok {
		r.Availability = domain.RoomAvailable
	}
	return nil
}

func (m *memRepo) InsertBooking(ctx context.Context, b domain.Booking) error {
	bc := b
	m.bookings[b.Code] = &bc
	return nil
}

func (m *memRepo) SetBookingStatus(ctx context.Context, code, status string) error {
	b, ok := m.bookings[code]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memRepo) AvailabilitySummary(ctx context.Context) ([]domain.AvailabilityRow, error) {
	byType := map[string]*domain.AvailabilityRow{}
	for _, r := range m.rooms {
		if r.Availability != domain.RoomAvailable {
			continue
		}
		if row, ok := byType[r.Type]; ok {
			row.Count++
			continue
		}
		byType[r.Type] = &domain.AvailabilityRow{Type: r.Type, Price: r.Price, Count: 1}
	}
	var out []domain.AvailabilityRow
	for _, row := range byType {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *memRepo) AvailableByType(ctx context.Context, roomType string) ([]domain.RoomOffer, error) {
	var out []domain.RoomOffer
	for _, r := range m.rooms {
		if r.Type == roomType && r.Availability == domain.RoomAvailable {
			out = append(out, domain.RoomOffer{ID: r.ID, Type: r.Type, Price: r.Price})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *memRepo) PriceRange(ctx context.Context, min, max float64) ([]domain.AvailabilityRow, error) {
	rows, _ := m.AvailabilitySummary(ctx)
	var out []domain.AvailabilityRow
	for _, row := range rows {
		if row.Price >= min && row.Price <= max {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memRepo) CheapestAvailable(ctx context.Context) (domain.RoomOffer, error) {
	offers, _ := m.AvailabilitySummary(ctx)
	if len(offers) == 0 {
		return domain.RoomOffer{}, domain.ErrNoVacancy
	}
	for _, r := range m.rooms {
		if r.Availability == domain.RoomAvailable && r.Price == offers[0].Price {
			return domain.RoomOffer{ID: r.ID, Type: r.Type, Price: r.Price}, nil
		}
	}
	return domain.RoomOffer{}, domain.ErrNoVacancy
}

func (m *memRepo) GetBookingByCode(ctx context.Context, code string) (domain.Booking, error) {
	b, ok := m.bookings[code]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *b, nil
}

type memCache struct{ store map[string][]byte }

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type memSessions struct{ store map[string]domain.Session }

func (s *memSessions) Load(ctx context.Context, id string) (domain.Session, error) {
	if sess, ok := s.store[id]; ok {
		return sess, nil
	}
	return domain.Session{ID: id}, nil
}

func (s *memSessions) Save(ctx context.Context, sess domain.Session) error {
	if s.store == nil {
		s.store = map[string]domain.Session{}
	}
	s.store[sess.ID] = sess
	return nil
}

func newTestMux(t *testing.T, rooms ...domain.Room) http.Handler {
	t.Helper()
	repo := newMemRepo(rooms...)
	prop := shared.DefaultProperty()
	q := app.NewQueryService(repo, &memCache{}, time.Minute, prop)
	b := app.NewBookingService(repo, q, nil)
	recep := app.NewReceptionist(q, b, &memSessions{}, nil, prop, 50)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{R: recep, Q: q})
	return srv.Mux()
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	mux := newTestMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChat_FullBookingFlow(t *testing.T) {
	mux := newTestMux(t, domain.Room{ID: 1, Type: "Suite", Price: 250, Availability: domain.RoomAvailable})

	post := func(sessionID, message string) app.Turn {
		t.Helper()
		body, _ := json.Marshal(map[string]string{"session_id": sessionID, "message": message})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
		var turn app.Turn
		if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
			t.Fatalf("decode turn: %v", err)
		}
		return turn
	}

	turn := post("", "I'd like to book a suite")
	if turn.Action != app.ActionBookingRequest || turn.SessionID == "" {
		t.Fatalf("unexpected turn: %+v", turn)
	}

	turn2 := post(turn.SessionID, "yes")
	if turn2.Action != app.ActionConfirmed {
		t.Fatalf("unexpected turn: %+v", turn2)
	}
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	mux := newTestMux(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader([]byte(`{"message":"  "}`)))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %s", ct)
	}
}

func TestAvailability_ETagRoundTrip(t *testing.T) {
	mux := newTestMux(t, domain.Room{ID: 1, Type: "Single", Price: 80, Availability: domain.RoomAvailable})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/availability", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}

	rec2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/availability", nil)
	req.Header.Set("If-None-Match", etag)
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", rec2.Code)
	}
}

func TestOffersByType(t *testing.T) {
	mux := newTestMux(t, domain.Room{ID: 1, Type: "Double", Price: 120, Availability: domain.RoomAvailable})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/double", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Offers []domain.RoomOffer `json:"offers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Offers) != 1 || out.Offers[0].Type != "Double" {
		t.Fatalf("unexpected offers: %+v", out.Offers)
	}

	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/v1/rooms/penthouse", nil))
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("unknown type status = %d", rec2.Code)
	}
}

func TestCheapest_NoVacancy(t *testing.T) {
	mux := newTestMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/cheapest", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBooking_NotFound(t *testing.T) {
	mux := newTestMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTranscript(t *testing.T) {
	mux := newTestMux(t, domain.Room{ID: 1, Type: "Single", Price: 80, Availability: domain.RoomAvailable})

	body, _ := json.Marshal(map[string]string{"session_id": "s1", "message": "any rooms available?"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/v1/sessions/s1/transcript", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("transcript status = %d", rec2.Code)
	}
	var out struct {
		SessionID  string            `json:"session_id"`
		Transcript []domain.ChatLine `json:"transcript"`
	}
	if err := json.Unmarshal(rec2.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Transcript) != 2 {
		t.Fatalf("unexpected transcript: %+v", out.Transcript)
	}
}
