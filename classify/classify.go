package classify

import (
	"sort"
	"time"

	"ehow/config"
	"ehow/types"
)

// Observer receives one call per classified record and one summary per pass.
// It is advisory only: nothing it does can change the returned buckets.
type Observer interface {
	Classified(rec types.ContentRecord, category types.Category)
	Summary(result Result)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) Classified(types.ContentRecord, types.Category) {}
func (NopObserver) Summary(Result)                                 {}

// Rule assigns Category to a record when Match returns true.
type Rule struct {
	Category types.Category
	Match    func(d *types.LiveDetails, cutoff time.Time) bool
}

// Rules is evaluated top to bottom and the first match wins. The upcoming rule
// deliberately does not look at ActualEnd, so a record with ScheduledStart and
// ActualEnd but no ActualStart is upcoming.
var Rules = []Rule{
	{
		Category: types.CategoryLive,
		Match: func(d *types.LiveDetails, _ time.Time) bool {
			return d.ActualStart != nil && d.ActualEnd == nil
		},
	},
	{
		Category: types.CategoryUpcoming,
		Match: func(d *types.LiveDetails, _ time.Time) bool {
			return d.ScheduledStart != nil && d.ActualStart == nil
		},
	},
	{
		Category: types.CategoryPast,
		Match: func(d *types.LiveDetails, cutoff time.Time) bool {
			return d.ActualEnd != nil && d.ActualEnd.After(cutoff)
		},
	},
}

// Result is the three sorted buckets plus the number of records dropped.
type Result struct {
	types.ResultSet
	Discarded int
}

// Classifier buckets content records into live, upcoming and past.
type Classifier struct {
	// Window is how far back a finished broadcast still counts as past.
	Window   time.Duration
	Observer Observer
}

// New returns a Classifier with the given window; a non-positive window means the default.
func New(window time.Duration, obs Observer) *Classifier {
	if window <= 0 {
		window = config.DefaultPastWindow
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Classifier{Window: window, Observer: obs}
}

// Classify returns the category of a single record relative to ref.
func (c *Classifier) Classify(rec types.ContentRecord, ref time.Time) types.Category {
	d := rec.LiveDetails
	if d == nil {
		return types.CategoryDiscarded
	}
	cutoff := ref.Add(-c.window())
	for _, r := range Rules {
		if r.Match(d, cutoff) {
			return r.Category
		}
	}
	return types.CategoryDiscarded
}

// Partition classifies every record and sorts each bucket newest first.
func (c *Classifier) Partition(records []types.ContentRecord, ref time.Time) Result {
	obs := c.observer()
	res := Result{ResultSet: types.ResultSet{
		Upcoming: []types.ContentRecord{},
		Live:     []types.ContentRecord{},
		Past:     []types.ContentRecord{},
	}}

	for _, rec := range records {
		cat := c.Classify(rec, ref)
		obs.Classified(rec, cat)

		switch cat {
		case types.CategoryLive:
			res.Live = append(res.Live, rec)
		case types.CategoryUpcoming:
			res.Upcoming = append(res.Upcoming, rec)
		case types.CategoryPast:
			res.Past = append(res.Past, rec)
		default:
			res.Discarded++
		}
	}

	sortNewestFirst(res.Upcoming, func(d *types.LiveDetails) *time.Time { return d.ScheduledStart })
	sortNewestFirst(res.Live, func(d *types.LiveDetails) *time.Time { return d.ActualStart })
	sortNewestFirst(res.Past, func(d *types.LiveDetails) *time.Time { return d.ActualEnd })

	obs.Summary(res)
	return res
}

// sortNewestFirst orders by the bucket timestamp descending, then by id ascending.
func sortNewestFirst(recs []types.ContentRecord, key func(*types.LiveDetails) *time.Time) {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, tj := key(recs[i].LiveDetails), key(recs[j].LiveDetails)
		if !ti.Equal(*tj) {
			return ti.After(*tj)
		}
		return recs[i].ID < recs[j].ID
	})
}

func (c *Classifier) window() time.Duration {
	if c.Window <= 0 {
		return config.DefaultPastWindow
	}
	return c.Window
}

func (c *Classifier) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}
