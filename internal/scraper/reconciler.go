package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/iliyamo/room-occupancy/internal/model"
)

const (
	// DefaultGraphicSelector selects the floor-plan shapes; their id embeds
	// the room's display name.
	DefaultGraphicSelector = "g[id]"
	// DefaultCardSelector selects the rendered summary cards.
	DefaultCardSelector = ".MuiCard-root"
)

// Class markers the floor plan uses on the shape's <use> element, in
// precedence order.
var classMarkers = []struct {
	marker string
	status model.Status
}{
	{"occupied", model.StatusOccupied},
	{"reserved", model.StatusReserved},
	{"free", model.StatusFree},
}

// Reconciler merges catalog rooms with status and activity cues found in
// the page markup.
type Reconciler struct {
	graphicSelector string
	cardSelector    string
	graphics        Matcher
	cards           Matcher
}

// Option customizes a Reconciler.
type Option func(*Reconciler)

// WithMatcher uses m for both floor-plan shapes and summary cards.
func WithMatcher(m Matcher) Option {
	return func(r *Reconciler) { r.graphics, r.cards = m, m }
}

// WithGraphicMatcher overrides the matcher applied to shape ids.
func WithGraphicMatcher(m Matcher) Option {
	return func(r *Reconciler) { r.graphics = m }
}

// WithCardMatcher overrides the matcher applied to card texts.
func WithCardMatcher(m Matcher) Option {
	return func(r *Reconciler) { r.cards = m }
}

// WithSelectors overrides the CSS selectors for shapes and cards.  Empty
// values keep the defaults.
func WithSelectors(graphic, card string) Option {
	return func(r *Reconciler) {
		if graphic != "" {
			r.graphicSelector = graphic
		}
		if card != "" {
			r.cardSelector = card
		}
	}
}

// NewReconciler returns a Reconciler using substring matching and the
// default selectors unless options say otherwise.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		graphicSelector: DefaultGraphicSelector,
		cardSelector:    DefaultCardSelector,
		graphics:        SubstringMatcher{},
		cards:           SubstringMatcher{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type graphic struct {
	id    string
	class string
}

type card struct {
	text  string
	first string
	last  string
}

// Reconcile builds one record per catalog room, in catalog order.  It
// never fails: a room without matching markup gets StatusFree and no
// activity or time slot.
func (r *Reconciler) Reconcile(tree *goquery.Document, rooms []CatalogRoom, now time.Time) []model.RoomRecord {
	graphics := r.collectGraphics(tree)
	cards := r.collectCards(tree)

	out := make([]model.RoomRecord, 0, len(rooms))
	for _, room := range rooms {
		rec := model.RoomRecord{
			ID:          room.ID,
			Name:        room.Name,
			DisplayName: room.DisplayName,
			Floor:       room.Floor,
			Seats:       room.Seats,
			Status:      r.resolveStatus(graphics, room.DisplayName),
			LastUpdated: now,
		}
		rec.TimeSlot, rec.CurrentActivity = r.resolveActivity(cards, room.DisplayName)
		out = append(out, rec)
	}
	return out
}

// resolveStatus scans shapes in document order.  Every match carrying a
// recognized class overwrites the previous result, so the last one wins.
func (r *Reconciler) resolveStatus(graphics []graphic, displayName string) model.Status {
	status := model.StatusFree
	for _, g := range graphics {
		if !r.graphics.Match(g.id, displayName) {
			continue
		}
		if s, ok := classify(g.class); ok {
			status = s
		}
	}
	return status
}

// resolveActivity reads the first matching card only.  An activity needs
// two distinct non-empty lines.
func (r *Reconciler) resolveActivity(cards []card, displayName string) (timeSlot, activity *string) {
	for _, c := range cards {
		if !r.cards.Match(c.text, displayName) {
			continue
		}
		if strings.Contains(c.first, "h") {
			t := c.first
			timeSlot = &t
		}
		if c.first != "" && c.last != "" && c.last != c.first {
			a := c.last
			activity = &a
		}
		return timeSlot, activity
	}
	return nil, nil
}

func (r *Reconciler) collectGraphics(tree *goquery.Document) []graphic {
	var out []graphic
	tree.Find(r.graphicSelector).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Find("use").First().Attr("class")
		out = append(out, graphic{id: s.AttrOr("id", ""), class: class})
	})
	return out
}

func (r *Reconciler) collectCards(tree *goquery.Document) []card {
	var out []card
	tree.Find(r.cardSelector).Each(func(_ int, s *goquery.Selection) {
		ps := s.Find("p")
		out = append(out, card{
			text:  s.Text(),
			first: strings.TrimSpace(ps.First().Text()),
			last:  strings.TrimSpace(ps.Last().Text()),
		})
	})
	return out
}

func classify(class string) (model.Status, bool) {
	for _, m := range classMarkers {
		if strings.Contains(class, m.marker) {
			return m.status, true
		}
	}
	return model.StatusUnknown, false
}
