package build

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkverify"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Fixed output locations.
const (
	LandingRoute = "/"
	NotFoundFile = "404.html"
)

func (b *Builder) renderPages(ctx context.Context, r *run, out *output) error {
	if err := out.open(); err != nil {
		return err
	}
	in := r.inputs
	renderer := site.NewRenderer(b.opts.Site, in.Docs, in.Tree, in.Router)
	r.renderer = renderer
	w := out.writer()

	previous := map[string]string{}
	if r.report.Mode == ModeIncremental && b.fps != nil {
		fps, err := b.fps.LoadFingerprints(ctx)
		if err != nil {
			observability.WarnContext(ctx, "Failed to load page fingerprints; rendering everything", logfields.Error(err))
		} else {
			previous = fps
		}
	}

	ctxHash := contextHash(in.Tree, in.Docs, in.Router, b.opts)
	current := make(map[string]string, in.Docs.Len())
	for _, d := range in.Docs.Docs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		route := in.Router.Route(d.Slug)
		fp := pageFingerprint(d, ctxHash)
		current[route] = fp

		if prev, ok := previous[route]; ok && prev == fp && fileExists(site.OutputPath(out.dir, route)) {
			r.report.Skipped++
			continue
		}
		page, err := renderer.DocPage(d)
		if err != nil {
			return err
		}
		if _, err := w.WritePage(route, page); err != nil {
			return err
		}
		r.report.Rendered++
		observability.DebugContext(ctx, "Rendered page", logfields.Slug(d.Slug), logfields.Route(route))
	}
	r.fingerprints = current

	if r.report.Mode == ModeIncremental {
		for route := range previous {
			if _, ok := current[route]; ok {
				continue
			}
			if err := out.removePage(route); err != nil {
				observability.WarnContext(ctx, "Failed to remove stale page", logfields.Route(route), logfields.Error(err))
				continue
			}
			r.report.Removed++
		}
	}

	assetBase := strings.TrimPrefix(in.Router.Base(), "/")
	for _, a := range in.Docs.Assets {
		if err := w.CopyFile(a.Path, path.Join(assetBase, a.RelativePath)); err != nil {
			return err
		}
	}
	if err := w.WriteStylesheet(); err != nil {
		return err
	}

	b.recorder.AddPages(r.report.Rendered, r.report.Skipped)
	b.emit(ctx, r.report.BuildID, eventstore.TypePagesRendered, eventstore.PagesRenderedData{
		Rendered: r.report.Rendered,
		Skipped:  r.report.Skipped,
	})
	observability.InfoContext(ctx, "Pages rendered",
		slog.Int("rendered", r.report.Rendered),
		slog.Int("skipped", r.report.Skipped),
		slog.Int("assets", len(in.Docs.Assets)))
	return nil
}

func (b *Builder) renderLanding(_ context.Context, r *run, out *output) error {
	renderer := r.renderer
	w := out.writer()

	page, err := renderer.LandingPage(b.opts.Landing)
	if err != nil {
		return err
	}
	if _, err := w.WritePage(LandingRoute, page); err != nil {
		return err
	}
	notFound, err := renderer.NotFoundPage()
	if err != nil {
		return err
	}
	return w.WriteFile(NotFoundFile, notFound)
}

func (b *Builder) verifyLinks(ctx context.Context, r *run, out *output) error {
	if !b.opts.VerifyLinks {
		return nil
	}
	v := &linkverify.Verifier{Dir: out.dir, CheckFragments: b.opts.CheckFragments}
	rep, err := v.Verify(ctx)
	if err != nil {
		return err
	}
	r.report.Links = rep
	r.report.BrokenLinks = rep.Broken
	b.recorder.SetBrokenLinks(len(rep.Broken))

	for _, bl := range rep.Broken {
		observability.WarnContext(ctx, "Broken link",
			logfields.Route(bl.Route), logfields.URL(bl.URL), slog.String("reason", bl.Reason))
	}
	if len(rep.Broken) > 0 {
		if err := b.publisher.PublishBrokenLinks(ctx, rep.Events(r.report.BuildID)); err != nil {
			observability.WarnContext(ctx, "Failed to publish broken links", logfields.Error(err))
		}
	}
	b.emit(ctx, r.report.BuildID, eventstore.TypeLinksVerified, eventstore.LinksVerifiedData{
		Checked: rep.Checked,
		Broken:  len(rep.Broken),
	})
	return nil
}

func (b *Builder) finalize(ctx context.Context, r *run, out *output) error {
	if err := out.commit(); err != nil {
		return err
	}
	if b.fps != nil && r.fingerprints != nil {
		if err := b.fps.SaveFingerprints(ctx, r.fingerprints); err != nil {
			return errors.WrapError(err, errors.CategoryEventStore, "failed to save page fingerprints").Build()
		}
	}
	observability.InfoContext(ctx, "Output published", logfields.Path(b.opts.OutputDir))
	return nil
}
