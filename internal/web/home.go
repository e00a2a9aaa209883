package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(lobbies []LobbyCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Dark Orbit</title>
    <link rel="stylesheet" href="`+stylesheetPath+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Dark Orbit</span>
        <h1>Keep the station flying.</h1>
        <p>Someone on board wants it to fall. Find them before the hull gives out.</p>
      </header>

      <section class="panel">
        <h2>Host a lobby</h2>
        <form id="createForm">
          <input name="username" placeholder="Your name" maxlength="20" required/>
          <button type="submit" class="primary">Create lobby</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Join a lobby</h2>
        <form id="joinForm">
          <input name="code" placeholder="Lobby code" autocomplete="off" maxlength="6" required/>
          <input name="username" placeholder="Your name" maxlength="20" required/>
          <button type="submit" class="secondary">Join</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
`)
		if err := lobbyList(lobbies).Render(ctx, w); err != nil {
			return err
		}
		_, _ = io.WriteString(w, `    </main>

    <script>
      async function session() {
        const res = await fetch("/api/sessions", {
          method: "POST",
          headers: { "X-Session-ID": localStorage.getItem("session_id") || "" }
        });
        const data = await res.json();
        localStorage.setItem("session_id", data.session_id);
        return data.session_id;
      }

      async function post(path, body) {
        const id = await session();
        const res = await fetch(path, {
          method: "POST",
          headers: { "Content-Type": "application/json", "X-Session-ID": id },
          body: JSON.stringify(body)
        });
        return { ok: res.ok, data: await res.json() };
      }

      document.getElementById("createForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const out = document.getElementById("createResult");
        const { ok, data } = await post("/api/lobbies", { username: event.target.elements.username.value.trim() });
        out.textContent = ok ? "Lobby " + data.code + " is open." : (data.error || "Could not create lobby.");
      });

      document.getElementById("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const out = document.getElementById("joinResult");
        const code = event.target.elements.code.value.trim().toUpperCase();
        const { ok, data } = await post("/api/lobbies/" + encodeURIComponent(code) + "/join", {
          username: event.target.elements.username.value.trim()
        });
        out.textContent = ok ? "Joined lobby " + data.code + "." : (data.error || "Could not join lobby.");
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}

func lobbyList(lobbies []LobbyCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `      <section class="panel">
        <h2>Open lobbies</h2>
`)
		if len(lobbies) == 0 {
			_, _ = io.WriteString(w, `        <p class="empty">No lobbies yet.</p>
      </section>
`)
			return nil
		}
		_, _ = io.WriteString(w, "        <ul class=\"lobbies\">\n")
		for _, lobby := range lobbies {
			status := "waiting"
			if lobby.Running {
				status = "in game"
			}
			_, _ = io.WriteString(w, `          <li><strong>`+templ.EscapeString(lobby.Code)+`</strong> `+
				itoa(lobby.Players)+` players, `+status+`</li>
`)
		}
		_, _ = io.WriteString(w, "        </ul>\n      </section>\n")
		return nil
	})
}
