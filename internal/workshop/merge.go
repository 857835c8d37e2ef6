package workshop

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/7otion/s7forge/internal/logging"
)

// NameResolver resolves owner steam ids to display names. Ids it cannot
// resolve are absent from the returned map.
type NameResolver interface {
	ResolveNames(ctx context.Context, ownerIDs []uint64, appID uint32) (map[uint64]string, error)
}

// Merge folds a fetch into a copy of snap. Fetched items overwrite their
// records; delta ids the fetch did not return become negative entries. The
// result is stamped with now.
func Merge(snap ItemSnapshot, delta []uint64, fetched []Item, now time.Time) ItemSnapshot {
	out := snap.Clone()
	returned := make(map[uint64]struct{}, len(fetched))
	for _, item := range fetched {
		out.Put(item.PublishedFileID, item.Clone())
		returned[item.PublishedFileID] = struct{}{}
	}
	for _, id := range delta {
		if _, ok := returned[id]; !ok {
			out.MarkMissing(id)
		}
	}
	out.Touch(now)
	return out
}

// OrderOutput lists the cached items in request order, keeping duplicates.
// Requested ids without a record are skipped and returned in omitted.
func OrderOutput(requested []uint64, snap ItemSnapshot) (items []Item, omitted []uint64) {
	items = make([]Item, 0, len(requested))
	for _, id := range requested {
		item, ok := snap.Records[id]
		if !ok {
			omitted = append(omitted, id)
			continue
		}
		items = append(items, item.Clone())
	}
	return items, omitted
}

// Enricher attaches creator names to items.
type Enricher struct {
	Resolver NameResolver
	Logger   *slog.Logger

	// Unknown replaces names that could not be resolved. Empty means UnknownCreator.
	Unknown string
}

// Enrich resolves every distinct owner with a single resolver call. A
// resolver error is logged; whatever names it did return are still used and
// every other creator gets the unknown sentinel.
func (e Enricher) Enrich(ctx context.Context, appID uint32, items []Item) []EnrichedItem {
	unknown := e.Unknown
	if unknown == "" {
		unknown = UnknownCreator
	}

	owners := make([]uint64, 0, len(items))
	seen := make(map[uint64]struct{}, len(items))
	for _, item := range items {
		id := item.Owner.SteamID64
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		owners = append(owners, id)
	}

	var names map[uint64]string
	if len(owners) > 0 && e.Resolver != nil {
		resolved, err := e.Resolver.ResolveNames(ctx, owners, appID)
		if err != nil {
			logger := logging.WithContext(ctx, logging.NewComponentLogger(e.Logger, "enrich"))
			logging.WarnWithContext(logger, "creator name resolution failed", "resolve_names_failed",
				logging.Int("owners", len(owners)),
				logging.Int("resolved", len(resolved)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check steam.web_api_key and network access"),
				logging.String(logging.FieldImpact, "unresolved creator names reported as "+unknown),
			)
		}
		names = resolved
	}

	out := make([]EnrichedItem, 0, len(items))
	for _, item := range items {
		name, ok := names[item.Owner.SteamID64]
		if !ok || name == "" {
			name = unknown
		}
		out = append(out, EnrichedItem{
			Item:        item,
			CreatorID:   strconv.FormatUint(item.Owner.SteamID64, 10),
			CreatorName: name,
		})
	}
	return out
}
