package precedents

import (
	"context"

	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/pkg/pagination"
)

// System defines the public contract for precedent domain operations.
// Record is called by the deliberation coordinator after aggregation; the
// remaining operations back the retrieval endpoints.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, inputDigest string, dec decision.Decision) (*Entry, error)
	Get(ctx context.Context, auditID string) (*Entry, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)

	Count(ctx context.Context) (int, error)
}
