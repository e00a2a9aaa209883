package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func GameOver(view GameOverView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		headline := "Nobody won."
		if view.Team != "" {
			headline = view.Team + " win."
		} else if len(view.Winners) > 0 {
			headline = strings.Join(view.Winners, ", ") + " won."
		}
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Game over - `+templ.EscapeString(view.Code)+`</title>
    <link rel="stylesheet" href="`+stylesheetPath+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Lobby `+templ.EscapeString(view.Code)+`</span>
        <h1>`+templ.EscapeString(headline)+`</h1>
        <p>`+itoa(view.Rounds)+` rounds. Ended `+templ.EscapeString(formatTime(view.EndedAt))+`.</p>
      </header>
      <section class="panel">
        <table class="results">
          <thead><tr><th>Player</th><th>Role</th><th>Side</th><th></th></tr></thead>
          <tbody>
`)
		for _, player := range view.Players {
			mark := ""
			if player.Won {
				mark = "winner"
			}
			_, _ = io.WriteString(w, `            <tr><td>`+templ.EscapeString(player.Username)+`</td><td>`+
				templ.EscapeString(player.Role)+`</td><td>`+templ.EscapeString(player.Group)+`</td><td>`+
				mark+`</td></tr>
`)
		}
		_, _ = io.WriteString(w, `          </tbody>
        </table>
        <a class="primary" href="/">Back to lobbies</a>
      </section>
    </main>
  </body>
</html>
`)
		return nil
	})
}
