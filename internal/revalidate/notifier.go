package revalidate

import (
	"context"
	"news-cms/internal/domain"
	"news-cms/internal/worker"

	"github.com/rs/zerolog/log"
)

type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

type Submitter interface {
	Submit(t worker.Task) bool
}

// Notifier turns page changes into background revalidation tasks. A Notifier
// without a revalidator (no FRONTEND_ADDRESS configured) does nothing.
type Notifier struct {
	revalidator Revalidator
	pool        Submitter
}

func NewNotifier(revalidator Revalidator, pool Submitter) *Notifier {
	return &Notifier{revalidator: revalidator, pool: pool}
}

// PageChanged schedules a rebuild of the public path of page. Drafts are not
// rendered publicly so they are skipped.
func (n *Notifier) PageChanged(page *domain.Page) {
	if n == nil || n.revalidator == nil || page == nil || page.Status != domain.PageStatusPublished {
		return
	}

	path := PathForSlug(page.Slug)
	n.pool.Submit(func(ctx context.Context) error {
		if err := n.revalidator.Revalidate(ctx, path); err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("renderer revalidated")
		return nil
	})
}

// PathForSlug maps a page slug to its public URL path; the home page is "/".
func PathForSlug(slug string) string {
	if slug == "" || slug == "home" {
		return "/"
	}
	return "/" + slug
}
