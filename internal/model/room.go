package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the live occupancy state of a room.  The numeric values match
// the codes used by the source page and must not be reordered.
type Status int

const (
	StatusUnknown  Status = 0
	StatusOccupied Status = 1
	StatusFree     Status = 2
	StatusReserved Status = 3
)

// Statuses lists every valid status in code order.
var Statuses = []Status{StatusUnknown, StatusOccupied, StatusFree, StatusReserved}

// statusMeta holds the presentation attributes of a status.
type statusMeta struct {
	key   string
	label string
	emoji string
	color int
}

var statusTable = map[Status]statusMeta{
	StatusUnknown:  {key: "unknown", label: "Inconnue", emoji: "❓", color: 0x808080},
	StatusOccupied: {key: "occupied", label: "Occupée", emoji: "🔴", color: 0xFF4444},
	StatusFree:     {key: "free", label: "Libre", emoji: "🟢", color: 0x44FF44},
	StatusReserved: {key: "reserved", label: "Réservée", emoji: "🟡", color: 0xFFAA00},
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// String returns the lower-case key of the status ("free", "occupied", ...).
func (s Status) String() string {
	if m, ok := statusTable[s]; ok {
		return m.key
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Label is the human-facing name of the status.
func (s Status) Label() string { return statusTable[s].label }

// Emoji is the marker shown next to the room in listings.
func (s Status) Emoji() string { return statusTable[s].emoji }

// Color is the RGB colour associated with the status.
func (s Status) Color() int { return statusTable[s].color }

// MarshalText encodes the status as its key so JSON payloads stay readable.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts either a key ("free") or a numeric code ("2").
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus converts a key or numeric code into a Status.  Matching on
// keys is case-insensitive.
func ParseStatus(raw string) (Status, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		if s := Status(n); s.Valid() {
			return s, nil
		}
		return StatusUnknown, fmt.Errorf("unknown status code %d", n)
	}
	for s, m := range statusTable {
		if m.key == raw {
			return s, nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown status %q", raw)
}

// RoomRecord is one normalized room in a snapshot.  Identity and metadata
// come from the page's room catalog; Status, CurrentActivity and TimeSlot
// come from the rendered markup.  Records are never mutated once built.
//
// Fields:
//  ID              – catalog intra_name, unique within a snapshot.
//  Name            – catalog name.
//  DisplayName     – catalog display_name; the key used for markup matching.
//  Floor           – 0 (RDC) to 3 in this deployment.
//  Seats           – capacity, informational only.
//  Status          – always one of Statuses; Free when nothing matched.
//  CurrentActivity – label from the room's summary card (nil when absent).
//  TimeSlot        – schedule text from the summary card (nil when absent).
//  LastUpdated     – timestamp of the refresh cycle that built the record.
type RoomRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Floor           int       `json:"floor"`
	Seats           int       `json:"seats"`
	Status          Status    `json:"status"`
	CurrentActivity *string   `json:"current_activity,omitempty"`
	TimeSlot        *string   `json:"time_slot,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

// FloorLabel returns the display name of a floor number.  Floors outside
// the building's 0-3 range get a neutral "étage N".
func FloorLabel(floor int) string {
	switch floor {
	case 0:
		return "RDC"
	case 1:
		return "1er étage"
	case 2, 3:
		return strconv.Itoa(floor) + "ème étage"
	default:
		return "étage " + strconv.Itoa(floor)
	}
}
