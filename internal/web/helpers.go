package web

import (
	"embed"
	"io/fs"
	"strconv"
	"time"
)

//go:embed static
var staticFiles embed.FS

// Static holds the stylesheet and any other assets the pages link under
// /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

const stylesheetPath = "/static/styles.css"

func itoa(value int) string {
	return strconv.Itoa(value)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04 MST")
}
