package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/workshop"
)

// maxSummaryIDs is the GetPlayerSummaries batch limit.
const maxSummaryIDs = 100

// PersonaResolver resolves owner steam ids to persona names.
type PersonaResolver struct {
	client *Client
}

var _ workshop.NameResolver = (*PersonaResolver)(nil)

// NewPersonaResolver wraps client.
func NewPersonaResolver(client *Client) *PersonaResolver {
	return &PersonaResolver{client: client}
}

// ResolveNames looks ownerIDs up in batches of 100. Ids without a public
// profile are simply absent from the result. A failed batch is skipped: the
// names from the other batches are still returned, together with an error
// describing every failed batch. The app id only tags the error.
func (r *PersonaResolver) ResolveNames(ctx context.Context, ownerIDs []uint64, appID uint32) (map[uint64]string, error) {
	names := make(map[uint64]string, len(ownerIDs))
	var failures []error
	for start := 0; start < len(ownerIDs); start += maxSummaryIDs {
		end := min(start+maxSummaryIDs, len(ownerIDs))
		chunk, err := r.client.PlayerNames(ctx, ownerIDs[start:end])
		if err != nil {
			msg := fmt.Sprintf("%s: ids %d-%d of %d", appLabel(appID), start+1, end, len(ownerIDs))
			failures = append(failures, services.Wrap(services.ErrExternalAPI, "persona", "resolve names", msg, err))
			continue
		}
		for id, name := range chunk {
			names[id] = name
		}
	}
	return names, errors.Join(failures...)
}
