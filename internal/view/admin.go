package view

import (
	"slices"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/store"
)

func adminShell(title string, body ...g.Node) g.Node {
	return Doctype(
		HTML(
			g.Attr("lang", "en"),
			Head(
				Meta(g.Attr("charset", "utf-8")),
				g.El("title", g.Text(title)),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(Class("admin"), g.Group(body)),
		),
	)
}

func AdminLogin(errMsg string) g.Node {
	return adminShell("Admin Login",
		Main(
			Class("admin-login"),
			H1(g.Text("Admin Login")),
			g.If(errMsg != "", P(Class("field-error"), g.Text(errMsg))),
			g.El("form",
				g.Attr("method", "post"),
				g.Attr("action", "/admin/login"),
				Div(
					Class("field"),
					g.El("label", g.Attr("for", "username"), g.Text("Username")),
					Input(ID("username"), Name("username"), Type("text"), Required()),
				),
				Div(
					Class("field"),
					g.El("label", g.Attr("for", "password"), g.Text("Password")),
					Input(ID("password"), Name("password"), Type("password"), Required()),
				),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Sign in")),
			),
		),
	)
}

// FunnelInPageOrder orders reveal counts the way sections appear on the page.
// Sections nobody revealed are listed with zero counts.
func FunnelInPageOrder(funnel []store.SectionReveals) []store.SectionReveals {
	out := make([]store.SectionReveals, 0, len(content.Sections))
	for _, name := range content.Sections {
		row := store.SectionReveals{Section: name}
		if i := slices.IndexFunc(funnel, func(r store.SectionReveals) bool { return r.Section == name }); i >= 0 {
			row = funnel[i]
		}
		out = append(out, row)
	}
	return out
}

func AdminDashboard(stats *store.Stats, activeSessions, connections int) g.Node {
	cards := []struct {
		label string
		value int64
	}{
		{"Total visits", stats.TotalVisits},
		{"Unique visitors", stats.UniqueVisitors},
		{"Visits today", stats.VisitsToday},
		{"Visits this week", stats.VisitsThisWeek},
		{"Sessions revealing", stats.RevealSessions},
		{"Active sessions", int64(activeSessions)},
		{"Live connections", int64(connections)},
	}
	cardNodes := make([]g.Node, 0, len(cards))
	for _, c := range cards {
		cardNodes = append(cardNodes, Div(Class("stat"), Span(Class("stat-label"), g.Text(c.label)), Strong(g.Textf("%d", c.value))))
	}

	funnelRows := make([]g.Node, 0, len(content.Sections))
	for _, r := range FunnelInPageOrder(stats.Funnel) {
		funnelRows = append(funnelRows, Tr(Td(g.Text(r.Section)), Td(g.Textf("%d", r.Reveals)), Td(g.Textf("%d", r.Sessions))))
	}

	visitRows := make([]g.Node, 0, len(stats.RecentVisits))
	for _, v := range stats.RecentVisits {
		visitRows = append(visitRows, Tr(
			Td(g.Text(v.CreatedAt.Format("2006-01-02 15:04"))),
			Td(g.Text(v.Path)),
			Td(g.Text(v.HashedIP)),
			Td(g.Text(v.UserAgent)),
		))
	}

	return adminShell("Admin Dashboard",
		Header(
			Class("admin-header"),
			H1(g.Text("Dashboard")),
			Nav(
				A(Href("/admin/api/stats"), g.Text("Stats JSON")),
				A(Href("/admin/export/stats"), g.Text("Export")),
				A(Href("/admin/logout"), g.Text("Log out")),
			),
		),
		Main(
			Div(Class("stats"), g.Group(cardNodes)),
			H2(g.Text("Reveal funnel")),
			Table(
				Class("funnel"),
				Tr(Th(g.Text("Section")), Th(g.Text("Reveals")), Th(g.Text("Sessions"))),
				g.Group(funnelRows),
			),
			H2(g.Text("Recent visits")),
			g.If(len(visitRows) == 0, P(Class("empty"), g.Text("No visits recorded yet."))),
			g.If(len(visitRows) > 0, Table(
				Class("visits"),
				Tr(Th(g.Text("When")), Th(g.Text("Path")), Th(g.Text("Visitor")), Th(g.Text("User agent"))),
				g.Group(visitRows),
			)),
			g.El("form",
				g.Attr("method", "post"),
				g.Attr("action", "/admin/privacy/cleanup"),
				Button(Type("submit"), Class("btn btn-outline"), g.Text("Delete data older than 12 months")),
			),
		),
	)
}
