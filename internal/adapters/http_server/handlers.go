package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/app"
	"frontdesk/internal/domain"
)

type Handlers struct {
	R *app.Receptionist
	Q *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/chat", h.chat)
	s.mux.Get("/v1/rooms/availability", h.availability)
	s.mux.Get("/v1/rooms/cheapest", h.cheapest)
	s.mux.Get("/v1/rooms/info", h.roomInfo)
	s.mux.Get("/v1/rooms/{type}", h.offersByType)
	s.mux.Get("/v1/bookings/{code}", h.booking)
	s.mux.Get("/v1/sessions/{id}/transcript", h.transcript)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON with a message field")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeProblem(w, http.StatusBadRequest, "Empty Message", "message must not be empty")
		return
	}
	turn, err := h.R.Handle(r.Context(), req.SessionID, req.Message)
	if err != nil {
		log.Error().Err(err).Msg("chat turn failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not process the message")
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Q.AvailabilitySummary(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "availability lookup failed")
		return
	}
	writeCacheable(w, r, map[string]any{"rooms": rows})
}

func (h *Handlers) offersByType(w http.ResponseWriter, r *http.Request) {
	roomType := chi.URLParam(r, "type")
	offers, err := h.Q.OffersByType(r.Context(), roomType)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRoomType) {
			writeProblem(w, http.StatusNotFound, "Unknown Room Type", roomType+" is not a room type we offer")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "room lookup failed")
		return
	}
	writeCacheable(w, r, map[string]any{"offers": offers})
}

func (h *Handlers) cheapest(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Q.Cheapest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoVacancy) {
			writeProblem(w, http.StatusNotFound, "No Vacancy", "no rooms are available")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "room lookup failed")
		return
	}
	writeCacheable(w, r, offer)
}

func (h *Handlers) roomInfo(w http.ResponseWriter, r *http.Request) {
	details, err := h.Q.RoomDetails(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "room info lookup failed")
		return
	}
	writeCacheable(w, r, map[string]any{"rooms": details})
}

func (h *Handlers) booking(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b, err := h.Q.Booking(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no booking with that confirmation code")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "booking lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":      b.Code,
		"room_id":   b.RoomID,
		"room_type": b.RoomType,
		"price":     b.Price,
		"status":    b.Status,
	})
}

func (h *Handlers) transcript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	lines, err := h.R.Transcript(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "transcript lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "transcript": lines})
}
