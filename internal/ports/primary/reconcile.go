package primary

import "context"

// ReconcileService defines the primary port for aggregate reconciliation.
type ReconcileService interface {
	// Reconcile derives a hub's aggregates from its child rows.
	Reconcile(ctx context.Context, hubName string) (*Aggregates, error)

	// Persist reconciles and writes the aggregates back to the hub's metrics.
	Persist(ctx context.Context, hubName string) (*Aggregates, error)
}

// Aggregates are the derived hub values next to their stored copies.
type Aggregates struct {
	HubName         string
	TotalHeadcount  int
	HeadcountPeriod string
	Permanent       float64
	Contract        float64
	TotalClients    int
	ServicesOffered int
	LocationSum     int
	Warning         string

	StoredHeadcount int
	StoredClients   int
	StoredServices  int
}

// Drifted reports whether any stored aggregate differs from its derived value.
func (a *Aggregates) Drifted() bool {
	return a.StoredHeadcount != a.TotalHeadcount ||
		a.StoredClients != a.TotalClients ||
		a.StoredServices != a.ServicesOffered
}
