package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// DataScriptSelector locates the script element that carries the page's
// server-side props.
const DataScriptSelector = "script#__NEXT_DATA__"

// Document is a parsed page: the queryable markup tree and the raw JSON
// embedded in the data script.
type Document struct {
	Tree *goquery.Document
	Data []byte
}

// ParseDocument parses html and pulls out the embedded JSON.  A missing
// script, an empty one, or content that is not valid JSON yields a
// *MissingDataError.
func ParseDocument(html string) (*Document, error) {
	tree, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &MissingDataError{Reason: "unparseable html", Err: err}
	}

	script := tree.Find(DataScriptSelector).First()
	if script.Length() == 0 {
		return nil, &MissingDataError{Reason: "script " + DataScriptSelector + " not found"}
	}
	raw := strings.TrimSpace(script.Text())
	if raw == "" {
		return nil, &MissingDataError{Reason: "script " + DataScriptSelector + " is empty"}
	}
	if !gjson.Valid(raw) {
		return nil, &MissingDataError{Reason: "script " + DataScriptSelector + " does not hold valid json"}
	}
	return &Document{Tree: tree, Data: []byte(raw)}, nil
}
