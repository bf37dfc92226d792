// Package freshness classifies how old a stored "last updated" timestamp is.
// Evaluation is pure: the reference time is always passed in by the caller.
package freshness

import (
	"fmt"
	"time"
)

// Layout is the format timestamps are persisted in (SQLite CURRENT_TIMESTAMP).
const Layout = "2006-01-02 15:04:05"

const (
	// ThresholdDays is the age after which data is considered stale.
	ThresholdDays = 30
	// WarningDays is the last day of the warning band; older data is outdated.
	WarningDays = 35
)

// Tier is the three-band classification used for coloring.
type Tier string

const (
	TierFresh    Tier = "fresh"
	TierWarning  Tier = "warning"
	TierOutdated Tier = "outdated"
)

// Age is the outcome of evaluating a timestamp against a reference time.
type Age struct {
	Label string
	Stale bool
	Tier  Tier
	// Days is the number of whole elapsed days. Only meaningful when Known.
	Days  int
	Known bool
}

// Evaluate computes the age of ts relative to now.
// An empty ts yields "Never"; an unparsable ts yields "Unknown". Both are stale.
func Evaluate(ts string, now time.Time) Age {
	if ts == "" {
		return Age{Label: "Never", Stale: true, Tier: TierOutdated}
	}

	parsed, err := time.ParseInLocation(Layout, ts, time.UTC)
	if err != nil {
		return Age{Label: "Unknown", Stale: true, Tier: TierOutdated}
	}

	elapsed := now.UTC().Sub(parsed)
	if elapsed < 0 {
		// Clock skew between writers; treat as just written.
		elapsed = 0
	}
	days := int(elapsed / (24 * time.Hour))

	return Age{
		Label: label(elapsed, days),
		Stale: days > ThresholdDays,
		Tier:  tierFor(days),
		Days:  days,
		Known: true,
	}
}

// IsStale reports whether ts is absent, unparsable or older than ThresholdDays.
func IsStale(ts string, now time.Time) bool {
	return Evaluate(ts, now).Stale
}

// Status returns the "Current"/"Outdated" wording used in summaries.
func (a Age) Status() string {
	if a.Stale {
		return "Outdated"
	}
	return "Current"
}

func label(elapsed time.Duration, days int) string {
	switch {
	case days == 0:
		hours := int(elapsed / time.Hour)
		if hours == 0 {
			return fmt.Sprintf("%d minutes ago", int(elapsed/time.Minute))
		}
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "Yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}

// tierFor shares its day count with Stale so the warning band starts
// exactly where data becomes stale.
func tierFor(days int) Tier {
	switch {
	case days <= ThresholdDays:
		return TierFresh
	case days <= WarningDays:
		return TierWarning
	default:
		return TierOutdated
	}
}

// Format renders t in the persisted timestamp layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
