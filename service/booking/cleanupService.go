package booking

import (
	"context"
	"time"

	invrepo "charterbooking/repository/inventory"
)

// Cleaner releases payment holds whose TTL lapsed so abandoned checkouts
// return capacity to the pool without manual intervention.
type Cleaner interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	r invrepo.Repo
}

func NewCleaner(r invrepo.Repo) Cleaner { return &cleaner{r: r} }

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.r.ReleaseExpiredHolds(ctx, time.Now().UTC())
}
