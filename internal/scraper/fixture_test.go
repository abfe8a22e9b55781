package scraper

import "fmt"

const oneRoomCatalog = `{"props":{"pageProps":{"townData":{"rooms":[
	{"intra_name":"r1","name":"Room One","display_name":"A1","floor":0,"seats":10}
]}}}}`

const threeRoomCatalog = `{"props":{"pageProps":{"townData":{"rooms":[
	{"intra_name":"r1","name":"Room One","display_name":"A1","floor":0,"seats":10},
	{"intra_name":"r2","name":"Lab Two","display_name":"B202","floor":2,"seats":24},
	{"intra_name":"r3","name":"Hub","display_name":"Hub","floor":1}
]}}}}`

// page wraps a catalog and some body markup into a document shaped like the
// source page.
func page(catalog, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>rooms</title></head>
<body>
<div id="__next">%s</div>
<script id="__NEXT_DATA__" type="application/json">%s</script>
</body>
</html>`, body, catalog)
}

func shape(id, class string) string {
	return fmt.Sprintf(`<g id=%q><use class=%q href="#shape"></use></g>`, id, class)
}

func plan(shapes ...string) string {
	out := `<svg viewBox="0 0 100 100">`
	for _, s := range shapes {
		out += s
	}
	return out + `</svg>`
}

func summaryCard(title string, lines ...string) string {
	out := `<div class="MuiCard-root MuiPaper-root"><span class="title">` + title + `</span>`
	for _, l := range lines {
		out += `<p class="MuiTypography-body2">` + l + `</p>`
	}
	return out + `</div>`
}
