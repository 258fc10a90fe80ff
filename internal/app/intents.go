package app

import (
	"regexp"
	"strconv"
	"strings"

	"frontdesk/internal/shared"
)

type Intent int

const (
	IntentUnknown Intent = iota
	IntentBook
	IntentConfirm
	IntentCancel
	IntentCheckIn
	IntentCheckOut
	IntentAvailability
	IntentCheapest
	IntentPrice
	IntentFeatures
	IntentDetails
)

// Confirm/cancel are exact turns, not keyword matches: "no rooms left?"
// must not cancel a hold.
var (
	confirmWords = map[string]bool{"yes": true, "confirm": true, "okay": true, "sure": true}
	cancelWords  = map[string]bool{"no": true, "cancel": true}
)

// Classify routes a guest line to an intent. Order mirrors the conversation
// protocol: booking turns first, then queries, broadest last.
func Classify(input string) Intent {
	s := strings.ToLower(strings.TrimSpace(input))

	if confirmWords[s] {
		return IntentConfirm
	}
	if cancelWords[s] {
		return IntentCancel
	}

	switch {
	case strings.Contains(s, "check-in") || strings.Contains(s, "check in") || strings.Contains(s, "checkin"):
		return IntentCheckIn
	case strings.Contains(s, "check-out") || strings.Contains(s, "check out") || strings.Contains(s, "checkout"):
		return IntentCheckOut
	case strings.Contains(s, "book") || strings.Contains(s, "reserve"):
		return IntentBook
	case containsAny(s, "available", "availability", "vacancy", "free"):
		return IntentAvailability
	case strings.Contains(s, "cheapest"):
		return IntentCheapest
	case containsAny(s, "price", "cost", "rate", "cheap"):
		return IntentPrice
	case containsAny(s, "feature", "amenity", "amenities", "include"):
		return IntentFeatures
	case containsAny(s, "info", "detail"):
		return IntentDetails
	}
	return IntentUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExtractRoomType finds the first catalog room type mentioned in the line.
func ExtractRoomType(input string, prop shared.Property) (string, bool) {
	s := strings.ToLower(input)
	for _, name := range prop.TypeNames() {
		if strings.Contains(s, strings.ToLower(name)) {
			return name, true
		}
	}
	return "", false
}

var numberRe = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)

// ExtractPriceRange pulls price bounds out of a line. Two numbers make a
// range; one number with an upper-bound word caps the range at it.
func ExtractPriceRange(input string) (min, max float64, ok bool) {
	matches := numberRe.FindAllStringSubmatch(strings.ToLower(input), -1)
	var nums []float64
	for _, m := range matches {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			nums = append(nums, n)
		}
	}
	switch {
	case len(nums) >= 2:
		min, max = nums[0], nums[1]
		if min > max {
			min, max = max, min
		}
		return min, max, true
	case len(nums) == 1 && containsAny(strings.ToLower(input), "under", "below", "less", "up to", "max"):
		return 0, nums[0], true
	}
	return 0, 0, false
}

var codeRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// ExtractBookingCode finds a confirmation code (UUID) in the line.
func ExtractBookingCode(input string) (string, bool) {
	if m := codeRe.FindString(input); m != "" {
		return strings.ToLower(m), true
	}
	return "", false
}
