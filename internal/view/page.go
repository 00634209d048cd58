// Package view renders the portfolio page and its fragments with gomponents.
package view

import (
	"fmt"
	"io"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
)

// PageData is what the full page renders from.
type PageData struct {
	SessionID string
	Snapshot  page.Snapshot
	AboutHTML string
	// Static pages carry no script and expect every section already revealed.
	Static bool
}

// Render writes node to w.
func Render(w io.Writer, node g.Node) error {
	return node.Render(w)
}

func Page(d PageData) g.Node {
	snap := d.Snapshot
	return g.Group([]g.Node{
		Doctype(
			HTML(
				g.Attr("lang", "en"),
				Head(
					Meta(g.Attr("charset", "utf-8")),
					Meta(Name("viewport"), g.Attr("content", "width=device-width, initial-scale=1")),
					g.El("title", g.Text(content.Name+" | Portfolio")),
					Link(Rel("stylesheet"), Href("/static/styles.css")),
					g.If(!d.Static, Script(Src("https://unpkg.com/htmx.org@1.9.12"))),
				),
				Body(
					g.If(d.SessionID != "", g.Attr("data-session", d.SessionID)),
					navbar(snap.Nav),
					Main(
						hero(snap),
						about(snap, d.AboutHTML),
						experience(snap),
						skills(snap),
						projects(d.SessionID, snap),
						contactSection(d.SessionID, snap),
					),
					Footer(
						Class("footer"),
						P(g.Textf("© %s", content.Name)),
					),
					Div(ID("toast"), Class("toast-region")),
					g.If(!d.Static, Script(g.Raw(pageScript))),
				),
			),
		),
	})
}

func revealClass(base string, visible bool) string {
	if visible {
		return base + " reveal is-visible"
	}
	return base + " reveal"
}

func navbar(state page.NavState) g.Node {
	class := "navbar"
	if state.Scrolled {
		class += " is-scrolled"
	}
	if state.MenuOpen {
		class += " menu-open"
	}

	links := make([]g.Node, 0, len(content.NavItems()))
	for _, item := range content.NavItems() {
		links = append(links, Li(A(Href(item.Href()), g.Attr("data-nav", item.Anchor), g.Text(item.Label))))
	}
	social := make([]g.Node, 0, 3)
	for _, link := range content.SocialLinks() {
		social = append(social, A(Href(link.Href), Target("_blank"), Rel("noopener noreferrer"), g.Text(link.Label)))
	}

	return Nav(
		ID("navbar"),
		Class(class),
		A(Class("brand"), Href("#home"), g.Text(content.Name)),
		Ul(Class("nav-links"), g.Group(links)),
		Div(Class("nav-social"), g.Group(social)),
		Button(
			ID("menu-toggle"),
			Type("button"),
			Class("menu-toggle"),
			g.Attr("aria-expanded", boolString(state.MenuOpen)),
			g.Attr("aria-label", "Toggle menu"),
			g.Text("☰"),
		),
	)
}

func hero(snap page.Snapshot) g.Node {
	roles := content.Roles()
	role := ""
	if snap.Role >= 0 && snap.Role < len(roles) {
		role = roles[snap.Role]
	}

	return Section(
		ID(content.SectionHome),
		Class(revealClass("hero", snap.Visible[content.SectionHome])),
		H1(
			Span(Class("greeting"), g.Text("Hello, I'm")),
			Span(Class("name"), g.Text(content.Name)),
		),
		P(Class("role"), Span(ID("role-label"), g.Text(role))),
		P(Class("tagline"), g.Text(content.Tagline)),
		Div(
			Class("cta"),
			A(Class("btn btn-primary"), Href("#projects"), g.Text("View My Work")),
			A(Class("btn btn-outline"), Href(content.CVPath), g.Attr("download", ""), g.Text("Download CV")),
		),
		A(Class("scroll-down"), Href("#about"), g.Attr("aria-label", "Scroll to about section"), g.Text("↓")),
	)
}

func about(snap page.Snapshot, storyHTML string) g.Node {
	facts := make([]g.Node, 0, len(content.Facts()))
	for _, f := range content.Facts() {
		facts = append(facts, Li(Strong(g.Text(f.Label+": ")), g.Text(f.Value)))
	}
	achievements := make([]g.Node, 0, len(content.Achievements()))
	for _, a := range content.Achievements() {
		achievements = append(achievements, Div(
			Class("achievement"),
			H3(g.Text(a.Title)),
			P(Class("subtitle"), g.Text(a.Subtitle)),
			P(g.Text(a.Description)),
		))
	}
	languages := make([]g.Node, 0, len(content.Languages()))
	for _, l := range content.Languages() {
		languages = append(languages, Li(g.Textf("%s %s: %s", l.Flag, l.Name, l.Level)))
	}

	return Section(
		ID(content.SectionAbout),
		Class(revealClass("about", snap.Visible[content.SectionAbout])),
		H2(g.Text("About Me")),
		Div(Class("story"), g.Raw(storyHTML)),
		Ul(Class("facts"), g.Group(facts)),
		Div(Class("achievements"), g.Group(achievements)),
		Ul(Class("languages"), g.Group(languages)),
	)
}

func experience(snap page.Snapshot) g.Node {
	entries := content.Experiences()
	items := make([]g.Node, 0, len(entries))
	for i, e := range entries {
		visible := i < len(snap.Items) && snap.Items[i]
		responsibilities := make([]g.Node, 0, len(e.Responsibilities))
		for _, r := range e.Responsibilities {
			responsibilities = append(responsibilities, Li(g.Text(r)))
		}
		items = append(items, Div(
			ID(page.ItemTarget(i)),
			Class(revealClass("timeline-item", visible)),
			g.Attr("style", fmt.Sprintf("transition-delay: %dms", (snap.ItemStep * time.Duration(i)).Milliseconds())),
			H3(g.Text(e.Title)),
			P(Class("company"), g.Text(e.Company)),
			P(Class("meta"), g.Textf("%s · %s · %s", e.Period, e.Location, e.Type)),
			P(g.Text(e.Description)),
			Ul(g.Group(responsibilities)),
			tags(e.Technologies),
		))
	}

	return Section(
		ID(content.SectionExperience),
		Class(revealClass("experience", snap.Visible[content.SectionExperience])),
		H2(g.Text("Experience")),
		Div(Class("timeline"), g.Group(items)),
		P(ID("experience-cta"), Class(revealClass("call-to-action", snap.AnyItem)), g.Text(content.ExperienceCallToAction)),
	)
}

func skills(snap page.Snapshot) g.Node {
	categories := make([]g.Node, 0, len(content.SkillCategories()))
	for _, c := range content.SkillCategories() {
		bars := make([]g.Node, 0, len(c.Skills))
		for _, s := range c.Skills {
			bars = append(bars, Div(
				Class("skill"),
				Div(Class("skill-head"), Span(g.Text(s.Name)), Span(g.Textf("%d%%", s.Level))),
				Div(
					Class("skill-track"),
					Div(
						Class("skill-bar"),
						g.Attr("data-skill", s.Name),
						g.Attr("style", fmt.Sprintf("width: %d%%", snap.Skills[s.Name])),
					),
				),
			))
		}
		categories = append(categories, Div(Class("skill-category"), H3(g.Text(c.Title)), g.Group(bars)))
	}

	return Section(
		ID(content.SectionSkills),
		Class(revealClass("skills", snap.Visible[content.SectionSkills])),
		H2(g.Text("Skills")),
		Div(Class("skill-grid"), g.Group(categories)),
	)
}

func projects(sessionID string, snap page.Snapshot) g.Node {
	return Section(
		ID(content.SectionProjects),
		Class(revealClass("projects", snap.Visible[content.SectionProjects])),
		H2(g.Text("Projects")),
		ProjectsGrid(ProjectsData{
			SessionID:  sessionID,
			Categories: snap.Categories,
			Active:     snap.Category,
			Projects:   snap.Projects,
		}),
		P(Class("call-to-action"), g.Text(content.ProjectsCallToAction)),
	)
}

func contactSection(sessionID string, snap page.Snapshot) g.Node {
	methods := make([]g.Node, 0, len(content.ContactMethods()))
	for _, m := range content.ContactMethods() {
		var value g.Node = Span(g.Text(m.Value))
		if m.Href != "" {
			value = A(
				Href(m.Href),
				g.If(m.External(), Target("_blank")),
				g.If(m.External(), Rel("noopener noreferrer")),
				g.Text(m.Value),
			)
		}
		methods = append(methods, Li(Strong(g.Text(m.Label+": ")), value))
	}

	return Section(
		ID(content.SectionContact),
		Class(revealClass("contact", snap.Visible[content.SectionContact])),
		H2(g.Text("Get In Touch")),
		Ul(Class("contact-methods"), g.Group(methods)),
		ContactForm(ContactFormData{
			SessionID:  sessionID,
			Draft:      snap.Draft,
			Submitting: snap.Submitting,
		}),
	)
}

func tags(values []string) g.Node {
	nodes := make([]g.Node, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, Span(Class("tag"), g.Text(v)))
	}
	return Div(Class("tags"), g.Group(nodes))
}
