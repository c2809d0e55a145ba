package churn

import (
	"math/rand"
	"time"

	"github.com/churnlabs/churnserve/pkg/audit"
	"github.com/churnlabs/churnserve/pkg/feature"
)

// Auditor records a sampled fraction of served predictions. With a nil store
// or zero percent it is a no-op, so handlers never branch on audit config.
type Auditor struct {
	store   *audit.Store
	percent int
}

func NewAuditor(store *audit.Store, percent int) *Auditor {
	return &Auditor{store: store, percent: percent}
}

// MaybeRecord samples and enqueues one prediction. Non-blocking; a full
// buffer drops the entry rather than delaying the response.
func (a *Auditor) MaybeRecord(requestID, endpoint, modelVersion string, vec feature.Vector, label int, prob float64, latency time.Duration) {
	if a.store == nil || a.percent <= 0 {
		return
	}
	if rand.Intn(100)+1 > a.percent {
		return
	}
	a.store.Record(audit.Entry{
		RequestID:    requestID,
		Endpoint:     endpoint,
		ModelVersion: modelVersion,
		Features:     append([]float64(nil), vec...),
		Label:        label,
		Probability:  prob,
		LatencyMs:    latency.Milliseconds(),
		At:           time.Now().UTC(),
	})
}
