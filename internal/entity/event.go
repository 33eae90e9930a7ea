package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	// HolesPerEvent is the number of holes in a 9/9/9 challenge round.
	HolesPerEvent = 9
	// ConsumptionTarget is the per-category goal: 9 hot dogs and 9 beverages.
	ConsumptionTarget = 9
	// PenaltyPerUnit is added to the score for every unit away from the target.
	PenaltyPerUnit = 5
)

type Event struct {
	ID          uuid.UUID
	Name        string
	Description *string
	EventCode   string // public identifier used in URLs
	JoinCode    string // short code shared with invitees
	CreatorID   uuid.UUID
	EventDate   time.Time
	Location    *string
	CreatedAt   time.Time
}

type Participant struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	EventID    uuid.UUID
	TotalScore int
	JoinedAt   time.Time
}

// HoleScore is the per (participant, hole) record. Strokes is nil for an
// unplayed hole.
type HoleScore struct {
	ID            uuid.UUID
	ParticipantID uuid.UUID
	HoleNumber    int
	Strokes       *int
	HotDogs       int
	Beverages     int
	BeverageType  *string
}

type Kudos struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	ParticipantID uuid.UUID
	KudosType     string
	SessionID     string // anonymous giver session, not a login
	CreatedAt     time.Time
}

type KudosTally struct {
	KudosType string
	Count     int
}

// ParticipantKudos groups an event participant's kudos tallies for the
// event-wide kudos listing.
type ParticipantKudos struct {
	ParticipantID uuid.UUID
	DisplayName   string
	Tallies       []KudosTally
	Total         int
}

type LeaderboardEntry struct {
	ParticipantID  uuid.UUID
	DisplayName    string // display name or masked phone fallback
	TotalScore     int
	TotalStrokes   int
	TotalHotDogs   int
	TotalBeverages int
	TotalKudos     int
}

// KudosTypes are the fixed endorsement categories of the 9/9/9 challenge.
var KudosTypes = map[string]string{
	"GLIZZY_GLADIATOR":      "Glizzy Gladiator",
	"BREW_MASTER":           "Brew Master",
	"SAND_TRAP_WARRIOR":     "Sand Trap Warrior",
	"DOUBLE_FISTING_LEGEND": "Double Fisting Legend",
	"FRANKLY_AMAZING":       "Frankly Amazing",
	"CART_GIRL_FAVORITE":    "Cart Girl's Favorite",
	"MULLIGAN_KING":         "Mulligan King",
	"BIRDIE_JUICE":          "Birdie Juice",
	"WIENER_WINNER":         "Wiener Winner",
	"GRIP_IT_AND_SIP_IT":    "Grip It & Sip It",
}

// IsValidKudosType reports whether kudosType is one of the fixed categories.
func IsValidKudosType(kudosType string) bool {
	_, ok := KudosTypes[kudosType]
	return ok
}
