package landing

// DefaultSiteInfo is the Clyp site metadata written by `docnav init`.
func DefaultSiteInfo() SiteInfo {
	return SiteInfo{
		Title:       "Clyp",
		Tagline:     "A tiny scripting language and standard library",
		Description: "Clyp: a tiny scripting language and standard library",
	}
}

// DefaultContent is the Clyp landing page.
func DefaultContent() Content {
	return Content{
		Intro: "Clyp is a small, practical scripting language and toolkit focused on " +
			"readable syntax and approachable tooling. Start with the quickstart " +
			"below, explore the standard library, or try the examples.",
		Buttons: []Link{
			{Label: "Get Started", To: "/docs/welcome/", Class: ButtonClassPrimary},
			{Label: "Stdlib", To: "/docs/stdlib/", Class: ButtonClassSecondary},
			{Label: "Examples", To: "/docs/examples", Class: ButtonClassSecondary},
		},
		Features: []Feature{
			{Title: "Readable syntax", Description: "Scripts read like pseudocode, with few symbols to memorize."},
			{Title: "Practical standard library", Description: "Helpers for files, HTTP, caching and timing ship with the language."},
			{Title: "Approachable tooling", Description: "One CLI runs, formats and checks your scripts."},
		},
		QuickLinks: []Card{
			{
				ID:      "ql-docs",
				Heading: "Documentation",
				Body:    `Read the user guide and language reference. Start with "Getting Started" to run your first Clyp script.`,
				Link:    Link{Label: "Getting started", To: "/docs/welcome/", AriaLabel: "Getting started with Clyp"},
			},
			{
				ID:      "ql-stdlib",
				Heading: "Standard Library",
				Body:    `Discover small, useful helpers provided by the standard library. Examples and API docs live under "stdlib".`,
				Link:    Link{Label: "Stdlib reference", To: "/docs/stdlib/", AriaLabel: "Stdlib reference"},
			},
			{
				ID:      "ql-examples",
				Heading: "Examples & Tooling",
				Body:    "See runnable examples and learn how to use the CLI and integrations with the `clyp` package.",
				Link:    Link{Label: "Examples", To: "/docs/examples", AriaLabel: "Examples and tooling"},
			},
		},
	}
}
