package page

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Zachkp/portfolio/internal/content"
)

// SkillMeter animates skill bars from zero to their level once the skills
// section is visible: a fixed lead, then each bar after its own jitter.
type SkillMeter struct {
	skills []content.Skill
	clock  clockwork.Clock
	lead   time.Duration
	jitter func() time.Duration

	mu       sync.Mutex
	levels   map[string]int
	timers   []clockwork.Timer
	started  bool
	onChange func(content.Skill)
}

// RandomJitter returns a uniformly random delay in [0, max).
func RandomJitter(max time.Duration) func() time.Duration {
	return func() time.Duration {
		if max <= 0 {
			return 0
		}
		return time.Duration(rand.Int64N(int64(max)))
	}
}

func NewSkillMeter(skills []content.Skill, clock clockwork.Clock, lead time.Duration, jitter func() time.Duration) *SkillMeter {
	if jitter == nil {
		jitter = func() time.Duration { return 0 }
	}
	return &SkillMeter{
		skills: skills,
		clock:  clock,
		lead:   lead,
		jitter: jitter,
		levels: make(map[string]int, len(skills)),
	}
}

// OnChange registers fn to run as each bar reaches its level.
func (m *SkillMeter) OnChange(fn func(content.Skill)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Level returns the animated level of a skill, zero until it has been reached.
func (m *SkillMeter) Level(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[name]
}

// Levels returns every animated level reached so far.
func (m *SkillMeter) Levels() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.levels))
	for k, v := range m.levels {
		out[k] = v
	}
	return out
}

// Start schedules the bars that have not yet reached their level.
func (m *SkillMeter) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.track(m.clock.AfterFunc(m.lead, m.fanOut))
}

func (m *SkillMeter) fanOut() {
	m.mu.Lock()
	var pending []content.Skill
	for _, s := range m.skills {
		if _, done := m.levels[s.Name]; !done {
			pending = append(pending, s)
		}
	}
	m.mu.Unlock()

	for _, skill := range pending {
		m.track(m.clock.AfterFunc(m.jitter(), func() { m.reach(skill) }))
	}
}

// track keeps t for Stop, or stops it right away if the meter was stopped meanwhile.
func (m *SkillMeter) track(t clockwork.Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		t.Stop()
		return
	}
	m.timers = append(m.timers, t)
}

func (m *SkillMeter) reach(s content.Skill) {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.levels[s.Name] = s.Level
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// Stop releases every pending timer. Bars already at their level stay there.
func (m *SkillMeter) Stop() {
	m.mu.Lock()
	timers := m.timers
	m.timers = nil
	m.started = false
	m.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}
