package view

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Render(&b, n))
	return b.String()
}

func newSnapshot(t *testing.T) page.Snapshot {
	t.Helper()
	s, err := page.NewSession(page.Options{Clock: clockwork.NewFakeClock()})
	require.NoError(t, err)
	return s.Snapshot()
}

func TestPageRendersHiddenSections(t *testing.T) {
	out := render(t, Page(PageData{SessionID: "abc", Snapshot: newSnapshot(t), AboutHTML: "<p>story</p>"}))

	assert.True(t, strings.HasPrefix(strings.ToLower(out), "<!doctype html>"))
	for _, name := range content.Sections {
		assert.Contains(t, out, `id="`+name+`"`)
	}
	assert.Contains(t, out, `class="about reveal"`)
	assert.NotContains(t, out, "reveal is-visible")
	assert.Contains(t, out, `data-session="abc"`)
	assert.Contains(t, out, `<span id="role-label">Full Stack Developer</span>`)
	assert.Contains(t, out, `id="experience-item-0"`)
	assert.Contains(t, out, "<p>story</p>")
	assert.Contains(t, out, `data-skill="React" style="width: 0%"`)
	assert.Contains(t, out, "new WebSocket")
}

func TestPageStaticExport(t *testing.T) {
	snap := newSnapshot(t).Revealed()
	out := render(t, Page(PageData{Snapshot: snap, Static: true}))

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "data-session")
	assert.Contains(t, out, `class="hero reveal is-visible"`)
	assert.Contains(t, out, `class="timeline-item reveal is-visible"`)
	assert.Contains(t, out, `id="experience-cta" class="call-to-action reveal is-visible"`)
	assert.Contains(t, out, `data-skill="React" style="width: 88%"`)
}

func TestExternalLinksOpenInNewContext(t *testing.T) {
	out := render(t, Page(PageData{Snapshot: newSnapshot(t), Static: true}))

	assert.Contains(t, out, `href="`+content.GitHubURL+`" target="_blank" rel="noopener noreferrer"`)
	assert.Contains(t, out, `href="mailto:`+content.Email+`"`)
	assert.Contains(t, out, "mail.google.com")
}

func TestProjectsGrid(t *testing.T) {
	out := render(t, ProjectsGrid(ProjectsData{
		SessionID:  "abc",
		Categories: content.ProjectCategories(),
		Active:     "Mobile",
	}))

	assert.Contains(t, out, `id="project-gallery"`)
	assert.Contains(t, out, "No projects in this category yet.")
	assert.Contains(t, out, `hx-get="/projects?category=Full+Stack&amp;session=abc"`)
	assert.Contains(t, out, `class="category is-active"`)

	out = render(t, ProjectsGrid(ProjectsData{
		Categories: content.ProjectCategories(),
		Active:     "All",
		Projects:   content.Projects(),
	}))
	assert.NotContains(t, out, "No projects")
	assert.Equal(t, len(content.Projects()), strings.Count(out, `class="project-card`))
	assert.Contains(t, out, `<div class="project-image placeholder">`)
}

func TestContactForm(t *testing.T) {
	out := render(t, ContactForm(ContactFormData{
		SessionID: "abc",
		Draft:     contact.Draft{Name: "Ada", Message: "Hi <there>"},
		Errors:    map[string]string{"email": "Email must be a valid address"},
	}))

	assert.Contains(t, out, `hx-post="/contact"`)
	assert.Contains(t, out, `name="session" value="abc"`)
	assert.Contains(t, out, `value="Ada"`)
	assert.Contains(t, out, "Hi &lt;there&gt;")
	assert.Contains(t, out, "Email must be a valid address")
	assert.Contains(t, out, "Send Message")
	assert.NotContains(t, out, "disabled")

	out = render(t, ContactForm(ContactFormData{Submitting: true}))
	assert.Contains(t, out, "Sending...")
	assert.Contains(t, out, "disabled")
}

func TestToast(t *testing.T) {
	out := render(t, Toast(contact.Result{Title: contact.SuccessTitle, Description: contact.SuccessDescription}))

	assert.Contains(t, out, `hx-swap-oob="true"`)
	assert.Contains(t, out, "Message Sent!")
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(content.AboutStory)
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>working software</strong>")
	assert.Equal(t, 3, strings.Count(out, "<p>"))
}

func TestFunnelInPageOrder(t *testing.T) {
	got := FunnelInPageOrder([]store.SectionReveals{
		{Section: "skills", Reveals: 4, Sessions: 3},
		{Section: "home", Reveals: 9, Sessions: 9},
	})

	require.Len(t, got, len(content.Sections))
	assert.Equal(t, store.SectionReveals{Section: "home", Reveals: 9, Sessions: 9}, got[0])
	assert.Equal(t, store.SectionReveals{Section: "about"}, got[1])
	assert.Equal(t, store.SectionReveals{Section: "skills", Reveals: 4, Sessions: 3}, got[3])
}

func TestAdminDashboard(t *testing.T) {
	out := render(t, AdminDashboard(&store.Stats{
		TotalVisits:  12,
		RecentVisits: []store.Visit{{Path: "/", HashedIP: "deadbeef", CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}},
	}, 2, 1))

	assert.Contains(t, out, "<strong>12</strong>")
	assert.Contains(t, out, "deadbeef")
	assert.Contains(t, out, "2026-01-02 03:04")
	assert.Contains(t, out, `action="/admin/privacy/cleanup"`)
}

func TestAdminLogin(t *testing.T) {
	assert.NotContains(t, render(t, AdminLogin("")), "field-error")
	assert.Contains(t, render(t, AdminLogin("Invalid credentials")), "Invalid credentials")
}
