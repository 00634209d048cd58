package content

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavItems(t *testing.T) {
	items := NavItems()
	require.Len(t, items, 6)
	assert.Equal(t, NavItem{Anchor: "home", Label: "Home"}, items[0])
	assert.Equal(t, "#experience", items[2].Href())
	assert.Equal(t, "Experience", items[2].Label)
}

func TestProjectCategoriesCoverProjects(t *testing.T) {
	cats := ProjectCategories()
	assert.Equal(t, "All", cats[0])
	for _, p := range Projects() {
		assert.Contains(t, cats, p.CategoryName(), p.Title)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := Projects()
	p[0].Title = "changed"
	assert.NotEqual(t, "changed", Projects()[0].Title)
}

func TestComposeURL(t *testing.T) {
	raw := ComposeURL("me@example.com", "Hello there", "Body & more")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "mail.google.com", u.Host)
	assert.Equal(t, "cm", u.Query().Get("view"))
	assert.Equal(t, "me@example.com", u.Query().Get("to"))
	assert.Equal(t, "Hello there", u.Query().Get("su"))
	assert.Equal(t, "Body & more", u.Query().Get("body"))
}

func TestContactMethodExternal(t *testing.T) {
	assert.True(t, ContactMethod{Href: GitHubURL}.External())
	assert.False(t, ContactMethod{Href: "mailto:" + Email}.External())
	assert.False(t, ContactMethod{Href: CVPath}.External())
}

func TestSkillsWithinRange(t *testing.T) {
	all := AllSkills()
	assert.NotEmpty(t, all)
	for _, s := range all {
		assert.True(t, s.Level >= 0 && s.Level <= 100, s.Name)
	}
}
