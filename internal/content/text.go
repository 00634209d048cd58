package content

const (
	Name        = "Kauê Oenning"
	Location    = "Joinville, SC - Brazil"
	Email       = "kaueoenning9@gmail.com"
	GitHubURL   = "https://github.com/Kauezo"
	LinkedInURL = "https://www.linkedin.com/in/kau%C3%AA-oenning-96a4702b6/"
	CVPath      = "/cv"

	EmailSubject = "Contact via Portfolio"
	EmailBody    = "Hi Kauê, I saw your portfolio and would like to get in touch about..."
)

var (
	Tagline = `Passionate about modern web solutions and intelligent automations.
	Focused on creating responsive, interactive, and efficient systems with
	cutting-edge technologies.`

	// AboutStory is markdown, rendered once at startup.
	AboutStory = `I'm a developer who enjoys turning ideas into **working software**,
from responsive interfaces to the automations that run behind them.

My path started with a technical degree in systems development and continues
with a bachelor's in software engineering. Along the way I've been building
web apps, integrating AI agents into everyday workflows and learning how
infrastructure keeps it all running.

When I'm not coding I'm usually exploring a new tool, refining a side project,
or helping someone untangle a technical problem.`

	ProjectsCallToAction = `I'm always open to discussing new projects and opportunities.
	Let's build something amazing together!`

	ExperienceCallToAction = `I'm always excited to take on new challenges and contribute to innovative projects.
	Let's connect and explore how we can work together!`
)

var roles = []string{
	"Full Stack Developer",
	"AI Engineer",
	"Software Architect",
	"Tech Innovator",
}

var achievements = []Achievement{
	{
		Title:       "Bachelor's in Software Engineering",
		Subtitle:    "UNIVILLE (2025 - In Progress)",
		Description: "Focused on modern development practices and system architecture",
	},
	{
		Title:       "Technical Degree",
		Subtitle:    "Systems Development - SENAI (2022 - 2024)",
		Description: "Comprehensive training in software development fundamentals",
	},
}

var facts = []Fact{
	{Label: "Location", Value: Location},
	{Label: "Experience", Value: "2+ Years"},
}

var experiences = []Experience{
	{
		Title:       "IT Intern",
		Company:     "Wela Vision",
		Period:      "2025 - Ongoing",
		Location:    "Joinville, SC",
		Type:        "Internship",
		Description: "Provided technical support and maintenance of hardware and software systems.",
		Responsibilities: []string{
			"Assisted in the implementation of technological solutions",
			"Optimized internal processes through automation",
			"Maintained and troubleshot IT infrastructure",
			"Collaborated with development teams",
		},
		Technologies: []string{"Technical Support", "Hardware Maintenance", "Software Troubleshooting", "Process Optimization"},
	},
}

var projectCategories = []string{"All", "Web Development", "Full Stack", "Mobile", "Automation"}

var projects = []Project{
	{
		Title:        "Work List",
		Description:  "Task list built with Vue.js, offering a modern interface and the essentials of task management.",
		Technologies: []string{"Vue", "Vue Router", "Vuex"},
		Image:        "/images/work-list.png",
		Category:     "Web Development",
		GitHubURL:    "https://github.com/Kauezo/works-list-vue",
		LiveURL:      "https://kauezo.github.io/works-list-vue/",
		Featured:     true,
	},
	{
		Title:        "Kanban Board",
		Description:  "Task management dashboard built with React. Create, move and organize tasks across To Do, In Progress and Done columns.",
		Technologies: []string{"React", "TypeScript", "Css"},
		Image:        "/images/kanban-board.png",
		Category:     "Full Stack",
		GitHubURL:    "https://github.com/Kauezo/Quadro-Kanban",
		LiveURL:      "https://kauezo.github.io/Quadro-Kanban/",
		Featured:     true,
	},
	{
		Title:        "Mini Blog",
		Description:  "Responsive site where users post photos, built with React, Firebase and MongoDB.",
		Technologies: []string{"React", "Node", "Firebase", "Css"},
		Category:     "Web Development",
		GitHubURL:    "https://github.com/Kauezo/Mini-Blog",
		LiveURL:      "https://kauezo.github.io/Mini-Blog/",
	},
}

var skillCategories = []SkillCategory{
	{
		Title: "Frontend Development",
		Skills: []Skill{
			{"JavaScript", 90}, {"TypeScript", 85}, {"React", 88}, {"Tailwind CSS", 92}, {"Vue.js", 75},
		},
	},
	{
		Title: "Backend Development",
		Skills: []Skill{
			{"Java", 85}, {"Spring Boot", 80}, {"Node.js", 82}, {"Python", 78}, {"PHP", 70},
		},
	},
	{
		Title: "AI & Automations",
		Skills: []Skill{
			{"n8n", 88}, {"AI Agents", 85}, {"Intelligent Integrations", 80}, {"Workflow Automation", 90},
		},
	},
	{
		Title: "Databases",
		Skills: []Skill{
			{"Firebase", 85}, {"MongoDB", 80}, {"SQL", 82}, {"PostgreSQL", 78}, {"Supabase", 75}, {"Baserow", 70},
		},
	},
	{
		Title: "Tools & Platforms",
		Skills: []Skill{
			{"Git", 90}, {"GitHub", 88}, {"VS Code", 95}, {"Microsoft Office", 85},
			{"Figma", 75}, {"Cursor", 80}, {"Lovable", 85}, {"IDEA", 78},
		},
	},
}

var languages = []Language{
	{Name: "Portuguese", Level: "Native", Flag: "🇧🇷"},
	{Name: "English", Level: "Advanced", Flag: "🇺🇸"},
	{Name: "Spanish", Level: "Basic", Flag: "🇪🇸"},
}

var contactMethods = []ContactMethod{
	{Label: "Email", Value: Email, Href: "mailto:" + Email},
	{Label: "Location", Value: Location},
	{Label: "GitHub", Value: "@Kauezo", Href: GitHubURL},
	{Label: "LinkedIn", Value: "@kauê-oenning", Href: LinkedInURL},
	{Label: "Curriculum", Value: "Download CV", Href: CVPath},
}
