package roles

import (
	"context"
	"time"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/register"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xgeneric/iter"
)

// RegisterReader is every read-only operation a role may expose.
type RegisterReader interface {
	LoadVersion(ctx context.Context, vid identifier.VersionedIdentifier) (domain.Version, error)
	LoadEPrint(ctx context.Context, id identifier.Identifier) (domain.EPrint, error)
	LoadHistory(ctx context.Context, id identifier.Identifier) iter.Seq[domain.EventSummary]
	LoadVersionHistory(ctx context.Context, vid identifier.VersionedIdentifier) iter.Seq[domain.EventSummary]
	LoadSource(ctx context.Context, vid identifier.VersionedIdentifier) (domain.CanonicalFile, *store.Stream, error)
	LoadRender(ctx context.Context, vid identifier.VersionedIdentifier) (domain.CanonicalFile, *store.Stream, error)
	LoadListing(ctx context.Context, date time.Time, shard string) (domain.Listing, error)
	LoadEvent(ctx context.Context, eventID identifier.EventIdentifier) (domain.Event, error)
	LoadEventsByDay(ctx context.Context, date time.Time) (iter.Seq[domain.EventSummary], int)
	LoadEventsByMonth(ctx context.Context, year, month int) (iter.Seq[domain.EventSummary], int)
	LoadEventsByYear(ctx context.Context, year int) (iter.Seq[domain.EventSummary], int)
}

// RegisterWriter is RegisterReader plus the single mutating operation.
type RegisterWriter interface {
	RegisterReader
	AddEvents(ctx context.Context, events ...domain.Event) error
}

// registerProxy wraps a *register.Register, exposing the full
// RegisterReader surface unconditionally and gating AddEvents behind
// writable. It is the one concrete type in this package that has to
// carry a superset of its role's capability (Repository holds one with
// writable=false behind the narrower RegisterReader field type), so it
// guards the write path itself rather than relying purely on the
// compile-time restriction the role structs otherwise get for free.
type registerProxy struct {
	*register.Register
	writable bool
}

// AddEvents overrides the embedded Register.AddEvents, rejecting the
// call outright when this proxy was built read-only.
func (p *registerProxy) AddEvents(ctx context.Context, events ...domain.Event) error {
	if !p.writable {
		return errdefs.Newf(errdefs.ErrUnsupported, "register proxy: writes are not permitted by this role")
	}
	return p.Register.AddEvents(ctx, events...)
}

var (
	_ RegisterReader = (*registerProxy)(nil)
	_ RegisterWriter = (*registerProxy)(nil)
)
