package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// RouteEntry is one leaf in navigation order.
type RouteEntry struct {
	Sidebar string `json:"sidebar"`
	Slug    string `json:"slug"`
	Label   string `json:"label"`
	Route   string `json:"route"`
}

func (rc *RoutesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	in, err := build.New(buildOptions(cfg, nil)).Validate(context.Background())
	if err != nil {
		return err
	}
	if err := in.Lint.Err(); err != nil {
		return err
	}
	entries := routeEntries(in)

	if rc.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return writeError(err)
		}
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SIDEBAR\tSLUG\tLABEL\tROUTE")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Sidebar, e.Slug, e.Label, e.Route)
	}
	if err := tw.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

func routeEntries(in *build.Inputs) []RouteEntry {
	labels := in.Docs.Labels()
	var out []RouteEntry
	for _, sb := range in.Tree.Sidebars {
		for _, slug := range nav.Leaves(sb.Items) {
			out = append(out, RouteEntry{
				Sidebar: sb.Name,
				Slug:    slug,
				Label:   labels[slug],
				Route:   in.Router.Route(slug),
			})
		}
	}
	return out
}
