package audit

import (
	"maps"
	"strconv"
	"time"

	"github.com/tkingovr/body-guard/api"
)

// counter aggregates records into api.AuditStats. It is not safe for
// concurrent use; stores guard it with their own lock.
type counter struct {
	stats api.AuditStats
}

func newCounter() *counter {
	return &counter{stats: api.AuditStats{
		ByStage:  make(map[api.Stage]int),
		ByFilter: make(map[string]int),
	}}
}

func (c *counter) add(r *api.AuditRecord) {
	c.stats.Total++
	switch r.Verdict {
	case api.VerdictUnchanged:
		c.stats.UnchangedCount++
	case api.VerdictTransformed:
		c.stats.TransformedCount++
	case api.VerdictRejected:
		c.stats.RejectedCount++
	case api.VerdictError:
		c.stats.ErrorCount++
	}
	if r.Stage != "" {
		c.stats.ByStage[r.Stage]++
	}
	if r.Filter != "" {
		c.stats.ByFilter[r.Filter]++
	}
}

// snapshot returns a copy the caller may keep.
func (c *counter) snapshot() *api.AuditStats {
	stats := c.stats
	stats.ByStage = maps.Clone(c.stats.ByStage)
	stats.ByFilter = maps.Clone(c.stats.ByFilter)
	return &stats
}

// stamp fills in a missing ID and timestamp.
func stamp(r *api.AuditRecord) {
	if r.ID == "" {
		r.ID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
}
