package landing

// Primitives is the capability set Compose builds a page from.
type Primitives[N any] interface {
	// Layout is the page frame with its document title and description.
	Layout(title, description string, children ...N) N
	// Hero is the banner at the top of the page.
	Hero(children ...N) N
	Heading(level int, id, class, text string) N
	Paragraph(class, text string) N
	Link(l Link) N
	Group(class string, children ...N) N
	Section(class string, children ...N) N
	Main(children ...N) N
	// Card is a box labelled by the heading with id labelledBy.
	Card(labelledBy string, children ...N) N
	Features(features []Feature) N
}

// Default classes for links without an explicit class.
const (
	ButtonClassPrimary   = "button button--primary button--lg"
	ButtonClassSecondary = "button button--secondary button--lg"
	CardLinkClass        = "button button--outline"
)

// Compose builds the landing page: a hero header with the site title,
// tagline, intro and call-to-action buttons, followed by the main area with
// the features grid and the quick-link cards.
func Compose[N any](site SiteInfo, c Content, ui Primitives[N]) N {
	description := site.Description
	if description == "" {
		description = site.Tagline
	}
	return ui.Layout(site.Title, description,
		header(site, c, ui),
		ui.Main(mainChildren(c, ui)...),
	)
}

func header[N any](site SiteInfo, c Content, ui Primitives[N]) N {
	children := []N{
		ui.Heading(1, "", "hero__title", site.Title),
		ui.Paragraph("hero__subtitle", site.Tagline),
	}
	if c.Intro != "" {
		children = append(children, ui.Paragraph("hero__intro", c.Intro))
	}
	if len(c.Buttons) > 0 {
		buttons := make([]N, 0, len(c.Buttons))
		for i, b := range c.Buttons {
			if b.Class == "" {
				b.Class = ButtonClassSecondary
				if i == 0 {
					b.Class = ButtonClassPrimary
				}
			}
			buttons = append(buttons, ui.Link(b))
		}
		children = append(children, ui.Group("buttons", buttons...))
	}
	return ui.Hero(ui.Group("container", children...))
}

func mainChildren[N any](c Content, ui Primitives[N]) []N {
	var out []N
	if len(c.Features) > 0 {
		out = append(out, ui.Features(c.Features))
	}
	if len(c.QuickLinks) > 0 {
		out = append(out, quickLinks(c.QuickLinks, ui))
	}
	return out
}

func quickLinks[N any](cards []Card, ui Primitives[N]) N {
	cols := make([]N, 0, len(cards))
	for _, card := range cards {
		id := card.CardID()
		link := card.Link
		if link.Class == "" {
			link.Class = CardLinkClass
		}
		cols = append(cols, ui.Group("col col--4",
			ui.Card(id,
				ui.Heading(3, id, "", card.Heading),
				ui.Paragraph("", card.Body),
				ui.Link(link),
			),
		))
	}
	return ui.Section("quick-links padding-vert--lg",
		ui.Group("container", ui.Group("row", cols...)),
	)
}
