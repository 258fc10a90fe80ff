package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
)

// Reply actions, part of the chat API contract.
const (
	ActionInfo           = "info"
	ActionError          = "error"
	ActionBookingRequest = "booking_request"
	ActionConfirmed      = "confirmed"
	ActionCancelled      = "cancel"
	ActionCheckedOut     = "checked_out"
)

// Turn is one receptionist reply.
type Turn struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Reply     string `json:"reply"`
}

// Receptionist runs a guest conversation: classify the line, answer from the
// inventory, keep the pending-booking state, and let the LLM put the answer
// into natural language.
type Receptionist struct {
	queries  *QueryService
	bookings *BookingService
	sessions domain.SessionStore
	llm      domain.LLM // nil disables rephrasing
	prop     shared.Property
	wordCap  int
}

func NewReceptionist(q *QueryService, b *BookingService, s domain.SessionStore, llm domain.LLM, prop shared.Property, wordCap int) *Receptionist {
	if wordCap <= 0 {
		wordCap = 50
	}
	return &Receptionist{queries: q, bookings: b, sessions: s, llm: llm, prop: prop, wordCap: wordCap}
}

// Handle processes one guest line. An empty sessionID starts a new
// conversation.
func (r *Receptionist) Handle(ctx context.Context, sessionID, input string) (Turn, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sess, err := r.sessions.Load(ctx, sessionID)
	if err != nil {
		return Turn{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	sess.Append(domain.SpeakerGuest, input)

	action, message := r.respond(ctx, &sess, input)

	reply := message
	// Booking turns stay verbatim: the yes/no protocol must not be
	// paraphrased away.
	if action == ActionInfo || action == ActionError {
		reply = r.rephrase(ctx, input, message)
	}
	sess.Append(domain.SpeakerAssistant, reply)

	if err := r.sessions.Save(ctx, sess); err != nil {
		return Turn{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return Turn{SessionID: sessionID, Action: action, Reply: reply}, nil
}

// Transcript returns the stored conversation for a session.
func (r *Receptionist) Transcript(ctx context.Context, sessionID string) ([]domain.ChatLine, error) {
	sess, err := r.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Transcript, nil
}

func (r *Receptionist) respond(ctx context.Context, sess *domain.Session, input string) (string, string) {
	switch Classify(input) {
	case IntentBook:
		return r.handleBook(ctx, sess, input)
	case IntentConfirm:
		if sess.Pending == nil {
			return ActionInfo, helpMessage
		}
		return r.handleConfirm(ctx, sess)
	case IntentCancel:
		sess.Pending = nil
		return ActionCancelled, "Booking cancelled. Is there anything else I can help you with?"
	case IntentCheckIn:
		return ActionInfo, fmt.Sprintf("Check-in at %s begins at %s. Our front desk will have your room ready then.",
			r.prop.Name, r.prop.CheckIn)
	case IntentCheckOut:
		return r.handleCheckOut(ctx, input)
	case IntentAvailability:
		return r.handleAvailability(ctx, input)
	case IntentCheapest:
		return r.handleCheapest(ctx)
	case IntentPrice:
		return r.handlePrice(ctx, input)
	case IntentFeatures:
		return r.handleFeatures(ctx)
	case IntentDetails:
		return r.handleDetails(ctx)
	default:
		return ActionInfo, helpMessage
	}
}

func (r *Receptionist) handleBook(ctx context.Context, sess *domain.Session, input string) (string, string) {
	roomType, ok := ExtractRoomType(input, r.prop)
	if !ok {
		return ActionError, fmt.Sprintf("What type of room would you like to book? (%s)", typeList(r.prop))
	}
	offer, err := r.bookings.Hold(ctx, roomType)
	if err != nil {
		if errors.Is(err, domain.ErrNoVacancy) {
			return ActionError, fmt.Sprintf("I apologize, but there are no %s rooms available at the moment.", roomType)
		}
		return r.failure(err)
	}
	sess.Pending = &domain.PendingBooking{RoomID: offer.ID, RoomType: offer.Type, Price: offer.Price}
	return ActionBookingRequest, fmt.Sprintf(
		"I found a %s room available for $%.2f per night. Would you like to confirm this booking? (yes/no)",
		offer.Type, offer.Price)
}

func (r *Receptionist) handleConfirm(ctx context.Context, sess *domain.Session) (string, string) {
	pending := *sess.Pending
	booking, err := r.bookings.Confirm(ctx, pending, sess.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomConflict) {
			// the held room was taken by another conversation; re-offer
			offer, herr := r.bookings.Hold(ctx, pending.RoomType)
			if herr != nil {
				sess.Pending = nil
				return ActionError, fmt.Sprintf(
					"I'm sorry, that %s room was just taken and no others are available right now.", pending.RoomType)
			}
			sess.Pending = &domain.PendingBooking{RoomID: offer.ID, RoomType: offer.Type, Price: offer.Price}
			return ActionBookingRequest, fmt.Sprintf(
				"I'm sorry, that room was just taken. I can offer another %s room for $%.2f per night instead. Confirm? (yes/no)",
				offer.Type, offer.Price)
		}
		return r.failure(err)
	}
	sess.Pending = nil
	return ActionConfirmed, fmt.Sprintf(
		"Great! I've booked your %s room. Your confirmation code is %s. The total cost is $%.2f per night. Thank you for choosing our hotel!",
		booking.RoomType, booking.Code, booking.Price)
}

func (r *Receptionist) handleCheckOut(ctx context.Context, input string) (string, string) {
	code, ok := ExtractBookingCode(input)
	if !ok {
		return ActionInfo, fmt.Sprintf(
			"Check-out is at %s. If you'd like me to check you out now, send your confirmation code.", r.prop.CheckOut)
	}
	booking, err := r.bookings.CheckOut(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActionError, "I couldn't find a booking with that confirmation code."
		}
		return r.failure(err)
	}
	return ActionCheckedOut, fmt.Sprintf(
		"You're all checked out of your %s room. We hope you enjoyed your stay!", booking.RoomType)
}

func (r *Receptionist) handleAvailability(ctx context.Context, input string) (string, string) {
	if roomType, ok := ExtractRoomType(input, r.prop); ok {
		offers, err := r.queries.OffersByType(ctx, roomType)
		if err != nil {
			return r.failure(err)
		}
		if len(offers) == 0 {
			return ActionInfo, fmt.Sprintf("Sorry, there are no available %s rooms at the moment.", roomType)
		}
		return ActionInfo, fmt.Sprintf("Yes, we have %d %s room(s) available at $%.2f per night.",
			len(offers), roomType, offers[0].Price)
	}

	rows, err := r.queries.AvailabilitySummary(ctx)
	if err != nil {
		return r.failure(err)
	}
	if len(rows) == 0 {
		return ActionInfo, "Sorry, there are no available rooms at the moment."
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d room(s) at $%.2f", row.Type, row.Count, row.Price))
	}
	return ActionInfo, "Available rooms:\n" + strings.Join(lines, "\n")
}

func (r *Receptionist) handleCheapest(ctx context.Context) (string, string) {
	offer, err := r.queries.Cheapest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoVacancy) {
			return ActionInfo, "Sorry, there are no available rooms at the moment."
		}
		return r.failure(err)
	}
	return ActionInfo, fmt.Sprintf("Our most economical option is a %s room at $%.2f per night.", offer.Type, offer.Price)
}

func (r *Receptionist) handlePrice(ctx context.Context, input string) (string, string) {
	if min, max, ok := ExtractPriceRange(input); ok {
		rows, err := r.queries.PriceRange(ctx, min, max)
		if err != nil {
			return r.failure(err)
		}
		if len(rows) == 0 {
			return ActionInfo, fmt.Sprintf("Sorry, no available rooms between $%.2f and $%.2f.", min, max)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("%s: %d room(s) at $%.2f", row.Type, row.Count, row.Price))
		}
		return ActionInfo, fmt.Sprintf("Rooms between $%.2f and $%.2f:\n%s", min, max, strings.Join(lines, "\n"))
	}
	return r.handleFeatures(ctx)
}

func (r *Receptionist) handleFeatures(ctx context.Context) (string, string) {
	details, err := r.queries.RoomDetails(ctx)
	if err != nil {
		return r.failure(err)
	}
	if len(details) == 0 {
		return ActionInfo, "Sorry, there are no available rooms at the moment."
	}
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, fmt.Sprintf("%s ($%.2f): %s", d.Type, d.Price, d.Features))
	}
	return ActionInfo, "Room prices and features:\n" + strings.Join(lines, "\n")
}

func (r *Receptionist) handleDetails(ctx context.Context) (string, string) {
	details, err := r.queries.RoomDetails(ctx)
	if err != nil {
		return r.failure(err)
	}
	if len(details) == 0 {
		return ActionInfo, "Sorry, there are no available rooms at the moment."
	}
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, fmt.Sprintf("%s - $%.2f/night\n  Available: %d room(s)\n  Features: %s\n  Max Occupancy: %d people",
			d.Type, d.Price, d.Count, d.Features, d.MaxOccupancy))
	}
	return ActionInfo, "Room Details:\n" + strings.Join(lines, "\n")
}

func (r *Receptionist) failure(err error) (string, string) {
	log.Error().Err(err).Msg("receptionist query failed")
	return ActionError, "I apologize, but I encountered an error handling that. Could you try again?"
}

// rephrase runs the structured answer through the LLM. On any failure the
// structured answer is returned verbatim: the desk never goes silent.
func (r *Receptionist) rephrase(ctx context.Context, userQuery, data string) string {
	if r.llm == nil {
		return data
	}
	prompt := fmt.Sprintf("%s\n\nUser query: %q\nHotel Data: %q\n\n"+
		"Please provide a natural, concise response as a hotel receptionist. Keep the response brief and friendly.",
		systemPrompt, userQuery, data)

	out, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("engine", r.llm.Name()).Msg("llm generate failed, serving structured answer")
		return data
	}
	return capWords(out, r.wordCap)
}

func capWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:n], " ")
}

func typeList(p shared.Property) string {
	names := p.TypeNames()
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
