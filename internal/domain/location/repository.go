package location

import "context"

type Store interface {
	Create(ctx context.Context, loc Location) (Location, error)
	Get(ctx context.Context, id, orgID string) (Location, error)
	ListByOrg(ctx context.Context, orgID string) ([]Location, error)
	Update(ctx context.Context, loc Location) (Location, error)
	Delete(ctx context.Context, id, orgID string) error
}
