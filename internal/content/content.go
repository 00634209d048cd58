// Package content holds the site's static records. Nothing here is loaded at
// runtime and nothing is ever mutated; accessors hand out copies.
package content

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section anchors in navigation order.
const (
	SectionHome       = "home"
	SectionAbout      = "about"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
	SectionContact    = "contact"
)

// Sections lists every anchor target in navigation order.
var Sections = []string{
	SectionHome,
	SectionAbout,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionContact,
}

type Achievement struct {
	Title       string
	Subtitle    string
	Description string
}

type Fact struct {
	Label string
	Value string
}

type Experience struct {
	Title            string
	Company          string
	Period           string
	Location         string
	Type             string
	Description      string
	Responsibilities []string
	Technologies     []string
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image,omitempty"`
	Category     string   `json:"category"`
	GitHubURL    string   `json:"github_url"`
	LiveURL      string   `json:"live_url"`
	Featured     bool     `json:"featured"`
}

// CategoryName lets projects be filtered by catalog.Filter.
func (p Project) CategoryName() string {
	return p.Category
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type SkillCategory struct {
	Title  string
	Skills []Skill
}

type Language struct {
	Name  string
	Level string
	Flag  string
}

type ContactMethod struct {
	Label string
	Value string
	Href  string
}

// External reports whether the link should open in a new browsing context.
func (c ContactMethod) External() bool {
	return strings.HasPrefix(c.Href, "http")
}

type NavItem struct {
	Anchor string
	Label  string
}

// Href is the in-page link to the anchor.
func (n NavItem) Href() string {
	return "#" + n.Anchor
}

type SocialLink struct {
	Label string
	Href  string
}

// NavItems derives the navigation bar from the section anchors.
func NavItems() []NavItem {
	title := cases.Title(language.English)
	items := make([]NavItem, 0, len(Sections))
	for _, anchor := range Sections {
		items = append(items, NavItem{Anchor: anchor, Label: title.String(anchor)})
	}
	return items
}

// ComposeURL is a mail-compose deep link with a fixed subject and body.
func ComposeURL(to, subject, body string) string {
	q := url.Values{}
	q.Set("view", "cm")
	q.Set("fs", "1")
	q.Set("to", to)
	q.Set("su", subject)
	q.Set("body", body)
	return "https://mail.google.com/mail/?" + q.Encode()
}

func Roles() []string                  { return slices.Clone(roles) }
func Achievements() []Achievement      { return slices.Clone(achievements) }
func Facts() []Fact                    { return slices.Clone(facts) }
func Experiences() []Experience        { return slices.Clone(experiences) }
func Projects() []Project              { return slices.Clone(projects) }
func ProjectCategories() []string      { return slices.Clone(projectCategories) }
func SkillCategories() []SkillCategory { return slices.Clone(skillCategories) }
func Languages() []Language            { return slices.Clone(languages) }
func ContactMethods() []ContactMethod  { return slices.Clone(contactMethods) }

// SocialLinks are the profile links shown in the navigation bar.
func SocialLinks() []SocialLink {
	return []SocialLink{
		{Label: "GitHub", Href: GitHubURL},
		{Label: "LinkedIn", Href: LinkedInURL},
		{Label: "Email", Href: ComposeURL(Email, EmailSubject, EmailBody)},
	}
}

// AllSkills flattens every category in display order.
func AllSkills() []Skill {
	var out []Skill
	for _, c := range skillCategories {
		out = append(out, c.Skills...)
	}
	return out
}
