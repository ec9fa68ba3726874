// Package views renders the HTML pages. Every page takes a typed view model
// so controllers never hand loose maps to the renderer.
package views

import (
	"github.com/petadopt/petadopt-backend/api/responses"
	"github.com/petadopt/petadopt-backend/internal/authz"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const siteName = "Pet Adoption"

// Shell carries what every page needs: its title, the current principal and
// the flashes popped for this request.
type Shell struct {
	Title     string
	Principal *authz.Principal
	Flashes   []responses.Flash
}

func (s Shell) isAdmin() bool {
	return s.Principal.IsAuthenticated() && s.Principal.IsAdmin
}

func layout(shell Shell, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(shell.Title+" | "+siteName)),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css")),
		),
		Body(
			Header(Class("container"), navBar(shell)),
			Main(Class("container"),
				flashList(shell.Flashes),
				Group(body),
			),
		),
	)
}

func navBar(shell Shell) Node {
	links := []Node{navLink("/", "Home")}
	if shell.Principal.IsAuthenticated() {
		links = append(links,
			navLink("/dashboard", "Dashboard"),
			navLink("/dogs", "Dogs"),
			navLink("/cats", "Cats"),
		)
		if shell.isAdmin() {
			links = append(links, navLink("/pet/add", "Add Pet"))
		}
		links = append(links, Li(
			Form(Method("post"), Action("/logout"),
				Button(Type("submit"), Class("secondary outline"), Text("Log out ("+shell.Principal.Username+")")),
			),
		))
	} else {
		links = append(links,
			navLink("/login", "Log in"),
			navLink("/register", "Register"),
		)
	}

	return Nav(
		Ul(Li(Strong(Text(siteName)))),
		Ul(Group(links)),
	)
}

func navLink(href, label string) Node {
	return Li(A(Href(href), Text(label)))
}

func flashList(flashes []responses.Flash) Node {
	if len(flashes) == 0 {
		return nil
	}
	items := make([]Node, 0, len(flashes))
	for _, flash := range flashes {
		category := string(flash.Category)
		if category == "" {
			category = string(responses.FlashInfo)
		}
		items = append(items, Div(
			Class("flash flash-"+category),
			Attr("role", "alert"),
			Text(flash.Message),
		))
	}
	return Section(Class("flashes"), Group(items))
}

func formError(message string) Node {
	if message == "" {
		return nil
	}
	return P(Class("flash flash-danger"), Attr("role", "alert"), Text(message))
}
