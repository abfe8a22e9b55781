package scraper

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// RoomsPath is the location of the room list inside the embedded JSON.
const RoomsPath = "props.pageProps.townData.rooms"

// CatalogRoom is one entry of the page's room list, projected field by
// field without validation beyond presence of the list itself.
type CatalogRoom struct {
	ID          string // intra_name
	Name        string // name
	DisplayName string // display_name
	Floor       int    // floor
	Seats       int    // seats
}

// ExtractCatalog walks data to the room list and maps every entry.  The
// list must exist and be an array of objects, and intra_name values must be
// unique; anything else is a *SchemaError.  Missing fields inside an entry
// are left at their zero value.
func ExtractCatalog(data []byte) ([]CatalogRoom, error) {
	list := gjson.GetBytes(data, RoomsPath)
	if !list.Exists() {
		return nil, &SchemaError{Path: RoomsPath, Reason: "not found"}
	}
	if !list.IsArray() {
		return nil, &SchemaError{Path: RoomsPath, Reason: "not an array"}
	}

	entries := list.Array()
	out := make([]CatalogRoom, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		path := RoomsPath + "." + strconv.Itoa(i)
		if !e.IsObject() {
			return nil, &SchemaError{Path: path, Reason: "entry is not an object"}
		}
		room := CatalogRoom{
			ID:          e.Get("intra_name").String(),
			Name:        e.Get("name").String(),
			DisplayName: e.Get("display_name").String(),
			Floor:       int(e.Get("floor").Int()),
			Seats:       int(e.Get("seats").Int()),
		}
		if seen[room.ID] {
			return nil, &SchemaError{Path: path + ".intra_name", Reason: "duplicate id " + strconv.Quote(room.ID)}
		}
		seen[room.ID] = true
		out = append(out, room)
	}
	return out, nil
}
