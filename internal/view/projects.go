package view

import (
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Zachkp/portfolio/internal/content"
)

// ProjectsData is the category bar and the grid it filters.
type ProjectsData struct {
	SessionID  string
	Categories []string
	Active     string
	Projects   []content.Project
}

// ProjectsGrid is swapped in place whenever a category is selected.
func ProjectsGrid(d ProjectsData) g.Node {
	buttons := make([]g.Node, 0, len(d.Categories))
	for _, c := range d.Categories {
		class := "category"
		if c == d.Active {
			class += " is-active"
		}
		q := url.Values{}
		q.Set("category", c)
		if d.SessionID != "" {
			q.Set("session", d.SessionID)
		}
		buttons = append(buttons, Button(
			Type("button"),
			Class(class),
			g.Attr("hx-get", "/projects?"+q.Encode()),
			g.Attr("hx-target", "#project-gallery"),
			g.Attr("hx-swap", "outerHTML"),
			g.Attr("aria-pressed", boolString(c == d.Active)),
			g.Text(c),
		))
	}

	cards := make([]g.Node, 0, len(d.Projects))
	for _, p := range d.Projects {
		cards = append(cards, projectCard(p))
	}

	return Div(
		ID("project-gallery"),
		Div(Class("categories"), g.Group(buttons)),
		g.If(len(cards) == 0, P(Class("empty"), g.Text("No projects in this category yet."))),
		g.If(len(cards) > 0, Div(ID("project-grid"), Class("project-grid"), g.Group(cards))),
	)
}

func projectCard(p content.Project) g.Node {
	class := "project-card"
	if p.Featured {
		class += " is-featured"
	}

	var image g.Node
	if p.Image != "" {
		image = Img(Src(p.Image), Alt(p.Title), Class("project-image"))
	} else {
		image = Div(Class("project-image placeholder"), g.Text("</>"))
	}

	return Div(
		Class(class),
		image,
		g.If(p.Featured, Span(Class("badge"), g.Text("Featured"))),
		Div(
			Class("project-body"),
			H3(g.Text(p.Title)),
			Span(Class("badge badge-secondary"), g.Text(p.Category)),
			P(g.Text(p.Description)),
			tags(p.Technologies),
			Div(
				Class("project-links"),
				A(Class("btn btn-primary"), Href(p.LiveURL), Target("_blank"), Rel("noopener noreferrer"), g.Text("Live Demo")),
				A(Class("btn btn-outline"), Href(p.GitHubURL), Target("_blank"), Rel("noopener noreferrer"), g.Text("Code")),
			),
		),
	)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
