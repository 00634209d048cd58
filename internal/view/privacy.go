package view

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Zachkp/portfolio/internal/content"
)

// Privacy describes what the site records about visitors.
func Privacy() g.Node {
	return adminShell("Privacy Policy",
		Main(
			Class("privacy"),
			H1(g.Text("Privacy Policy")),
			P(g.Text("This site keeps a small amount of anonymous usage data so its owner can see which parts of the page people read.")),
			H2(g.Text("What is recorded")),
			Ul(
				Li(g.Text("A one-way hash of your IP address. The raw address is never stored.")),
				Li(g.Text("Your browser's user agent and the page path you requested.")),
				Li(g.Text("Which sections of the page scrolled into view, tied to a random id that lives only as long as the page is open.")),
			),
			H2(g.Text("What is not recorded")),
			P(g.Text("Contact form messages are not stored or sent anywhere. No cookies are set for visitors.")),
			H2(g.Text("Do Not Track")),
			P(g.Text("Requests carrying a Do Not Track header are not recorded at all.")),
			H2(g.Text("Retention")),
			P(g.Text("Records older than twelve months are deleted automatically.")),
			P(A(Href("/"), g.Textf("Back to %s", content.Name))),
		),
	)
}
