// Package page composes the per-visitor state of the portfolio page.
//
// A Session owns one visibility tracker per section, the timeline's staggered
// item reveal, the hero's role rotation, the skill bars, the project filter,
// the contact form and the navigation bar. It is created when the page is
// rendered and attached to a browser connection, which both reports
// intersections and receives the resulting events.
package page

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Zachkp/portfolio/internal/catalog"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/rotate"
)

// ErrDetached is returned to trackers observing while no connection is attached.
var ErrDetached = errors.New("page: session is not attached")

// Events sent to the browser.
const (
	EventReveal     = "reveal"
	EventRevealItem = "reveal-item"
	EventRole       = "role"
	EventSkill      = "skill"
	EventNav        = "nav"
	EventSubmission = "submission"
)

type RevealEvent struct {
	Section string `json:"section"`
}

type RevealItemEvent struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	DelayMS int64  `json:"delay_ms"`
}

type RoleEvent struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

type SubmissionEvent struct {
	Status string `json:"status"`
}

// Conn is a browser connection: it observes regions and receives events.
type Conn interface {
	reveal.Observer
	Emit(event string, data any)
}

// Options tune a session. Zero values take the defaults of the live site.
type Options struct {
	Clock        clockwork.Clock
	RoleInterval time.Duration
	SubmitDelay  time.Duration
	HeroDelay    time.Duration
	ItemStep     time.Duration
	SkillLead    time.Duration
	// SkillJitter returns the extra delay of each skill bar.
	SkillJitter func() time.Duration
	// OnReveal runs for every section that latches.
	OnReveal func(id uuid.UUID, section string)
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.RoleInterval <= 0 {
		o.RoleInterval = 3 * time.Second
	}
	if o.SubmitDelay <= 0 {
		o.SubmitDelay = 2 * time.Second
	}
	if o.HeroDelay <= 0 {
		o.HeroDelay = 100 * time.Millisecond
	}
	if o.ItemStep <= 0 {
		o.ItemStep = 200 * time.Millisecond
	}
	if o.SkillLead <= 0 {
		o.SkillLead = 500 * time.Millisecond
	}
	if o.SkillJitter == nil {
		o.SkillJitter = RandomJitter(time.Second)
	}
	return o
}

// Observation parameters per region kind.
var (
	SectionOptions    = reveal.Options{Threshold: 0.1}
	ExperienceOptions = reveal.Options{Threshold: 0.1, RootMargin: "-50px"}
	ItemOptions       = reveal.Options{Threshold: 0.2, RootMargin: "-20px"}
)

// ItemTarget is the region id of timeline entry i.
func ItemTarget(i int) string {
	return content.SectionExperience + "-item-" + strconv.Itoa(i)
}

type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	opts     Options
	hero     *reveal.Tracker
	sections map[string]*reveal.Tracker
	timeline *reveal.Stagger
	roles    *rotate.Rotator
	skills   *SkillMeter
	projects *catalog.Selector
	contact  *contact.Submitter
	nav      Nav
	noTrack  atomic.Bool

	connMu sync.RWMutex
	conn   Conn

	mu        sync.Mutex
	cancel    context.CancelFunc
	heroTimer clockwork.Timer
	lastSeen  time.Time
}

func NewSession(opts Options) (*Session, error) {
	opts = opts.withDefaults()

	roles, err := rotate.New(content.Roles(), opts.RoleInterval, opts.Clock)
	if err != nil {
		return nil, err
	}

	now := opts.Clock.Now()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		opts:      opts,
		sections:  make(map[string]*reveal.Tracker),
		roles:     roles,
		skills:    NewSkillMeter(content.AllSkills(), opts.Clock, opts.SkillLead, opts.SkillJitter),
		projects:  catalog.NewSelector(content.ProjectCategories()),
		contact:   contact.NewSubmitter(opts.Clock, opts.SubmitDelay),
		lastSeen:  now,
	}

	// The hero is revealed by a timer after attach, never by observation.
	s.hero = reveal.NewTracker(content.SectionHome, SectionOptions, nil)
	s.hero.OnReveal(s.revealed)

	for _, name := range content.Sections[1:] {
		opts := SectionOptions
		if name == content.SectionExperience {
			opts = ExperienceOptions
		}
		t := reveal.NewTracker(name, opts, s)
		t.OnReveal(s.revealed)
		s.sections[name] = t
	}

	experiences := content.Experiences()
	targets := make([]string, len(experiences))
	for i := range experiences {
		targets[i] = ItemTarget(i)
	}
	s.timeline = reveal.NewStagger(s.sections[content.SectionExperience], targets, ItemOptions, opts.ItemStep, s)
	s.timeline.OnReveal(func(i int) {
		s.emit(EventRevealItem, RevealItemEvent{
			Section: content.SectionExperience,
			Index:   i,
			DelayMS: s.timeline.Delay(i).Milliseconds(),
		})
	})

	s.roles.OnChange(func(i int, label string) {
		s.emit(EventRole, RoleEvent{Index: i, Label: label})
	})
	s.skills.OnChange(func(skill content.Skill) {
		s.emit(EventSkill, skill)
	})
	s.contact.OnChange(func(st contact.Status) {
		s.emit(EventSubmission, SubmissionEvent{Status: st.String()})
	})

	return s, nil
}

func (s *Session) revealed(section string) {
	s.emit(EventReveal, RevealEvent{Section: section})
	if section == content.SectionSkills {
		s.skills.Start()
	}
	if s.opts.OnReveal != nil && !s.noTrack.Load() {
		s.opts.OnReveal(s.ID, section)
	}
}

// Observe forwards to the attached connection, so trackers outlive reconnects.
func (s *Session) Observe(ctx context.Context, targets []string, opts reveal.Options) (<-chan []reveal.Entry, error) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()
	if conn == nil {
		return nil, ErrDetached
	}
	return conn.Observe(ctx, targets, opts)
}

func (s *Session) emit(event string, data any) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()
	if conn != nil {
		conn.Emit(event, data)
	}
}

func (s *Session) setConn(conn Conn) {
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
}

// Attach starts every tracker and timer against conn. A session attached to
// another connection is detached from it first.
func (s *Session) Attach(ctx context.Context, conn Conn) {
	s.Detach()
	s.setConn(conn)

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.lastSeen = s.opts.Clock.Now()
	s.mu.Unlock()

	heroTimer := s.opts.Clock.AfterFunc(s.opts.HeroDelay, s.hero.Reveal)
	s.mu.Lock()
	s.heroTimer = heroTimer
	s.mu.Unlock()

	for _, name := range content.Sections[1:] {
		s.sections[name].Attach(ctx)
	}
	s.timeline.Attach(ctx)
	s.roles.Start(ctx)
	if s.sections[content.SectionSkills].Visible() {
		s.skills.Start()
	}

	i, label := s.roles.Current()
	s.emit(EventRole, RoleEvent{Index: i, Label: label})
}

// Detach stops every tracker and timer and forgets the connection. A contact
// submission in flight belongs to its request and runs to completion.
func (s *Session) Detach() {
	s.mu.Lock()
	cancel, heroTimer := s.cancel, s.heroTimer
	s.cancel, s.heroTimer = nil, nil
	s.lastSeen = s.opts.Clock.Now()
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	if heroTimer != nil {
		heroTimer.Stop()
	}
	s.roles.Stop()
	s.skills.Stop()
	s.timeline.Detach()
	for _, t := range s.sections {
		t.Detach()
	}
	cancel()
	s.setConn(nil)
}

// Release detaches the session only if conn is still the one driving it, so
// a connection that was replaced does not tear down its successor.
func (s *Session) Release(conn Conn) {
	s.connMu.RLock()
	current := s.conn
	s.connMu.RUnlock()
	if current == conn {
		s.Detach()
	}
}

// Attached reports whether a connection drives the session.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// DoNotTrack stops reveals of this session from reaching the OnReveal hook.
func (s *Session) DoNotTrack() {
	s.noTrack.Store(true)
}

// Touch marks the session as in use.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.opts.Clock.Now()
	s.mu.Unlock()
}

// IdleSince returns when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// HandleScroll records the page offset from the browser.
func (s *Session) HandleScroll(y float64) {
	if s.nav.Scroll(y) {
		s.emit(EventNav, s.nav.State())
	}
}

// HandleMenu opens or closes the mobile menu.
func (s *Session) HandleMenu(open bool) {
	if s.nav.SetMenu(open) {
		s.emit(EventNav, s.nav.State())
	}
}

// SelectCategory changes the active project category.
func (s *Session) SelectCategory(category string) ([]content.Project, error) {
	if err := s.projects.Select(category); err != nil {
		return nil, err
	}
	return catalog.Filter(content.Projects(), s.projects.Active()), nil
}

// VisibleProjects is the project list filtered by the active category.
func (s *Session) VisibleProjects() []content.Project {
	return catalog.Filter(content.Projects(), s.projects.Active())
}

func (s *Session) Projects() *catalog.Selector { return s.projects }
func (s *Session) Contact() *contact.Submitter { return s.contact }
func (s *Session) Roles() *rotate.Rotator      { return s.roles }
func (s *Session) Skills() *SkillMeter         { return s.skills }
func (s *Session) Timeline() *reveal.Stagger   { return s.timeline }
func (s *Session) Hero() *reveal.Tracker       { return s.hero }
func (s *Session) Nav() NavState               { return s.nav.State() }

// Section returns the tracker of a section anchor, nil for unknown anchors.
func (s *Session) Section(name string) *reveal.Tracker {
	if name == content.SectionHome {
		return s.hero
	}
	return s.sections[name]
}

// Snapshot is everything the page renders from.
type Snapshot struct {
	Visible    map[string]bool
	Items      []bool
	AnyItem    bool
	ItemStep   time.Duration
	Role       int
	Category   string
	Categories []string
	Projects   []content.Project
	Draft      contact.Draft
	Submitting bool
	Nav        NavState
	Skills     map[string]int
}

func (s *Session) Snapshot() Snapshot {
	visible := make(map[string]bool, len(content.Sections))
	for _, name := range content.Sections {
		visible[name] = s.Section(name).Visible()
	}
	role, _ := s.roles.Current()
	return Snapshot{
		Visible:    visible,
		Items:      s.timeline.Snapshot(),
		AnyItem:    s.timeline.Any(),
		ItemStep:   s.opts.ItemStep,
		Role:       role,
		Category:   s.projects.Active(),
		Categories: s.projects.Categories(),
		Projects:   s.VisibleProjects(),
		Draft:      s.contact.Draft(),
		Submitting: s.contact.Status() == contact.Submitting,
		Nav:        s.nav.State(),
		Skills:     s.skills.Levels(),
	}
}

// Revealed returns a copy of the snapshot with every section, timeline item
// and skill bar at its final state, as a visitor sees it after scrolling
// through the whole page.
func (snap Snapshot) Revealed() Snapshot {
	visible := make(map[string]bool, len(content.Sections))
	for _, name := range content.Sections {
		visible[name] = true
	}
	items := make([]bool, len(snap.Items))
	for i := range items {
		items[i] = true
	}
	skills := make(map[string]int)
	for _, s := range content.AllSkills() {
		skills[s.Name] = s.Level
	}
	snap.Visible, snap.Items, snap.Skills = visible, items, skills
	snap.AnyItem = len(items) > 0
	return snap
}
