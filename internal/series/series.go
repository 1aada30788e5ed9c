package series

import (
	"time"

	"price-tracker/internal/models"
)

// Timeline is one sku's observations grouped by platform. Platforms holds
// the channels that actually have data, in the fixed enumeration order, so
// legends stay stable across renders.
type Timeline struct {
	Platforms []string
	Records   map[string][]models.PriceRecord
}

// FromRecords groups timestamp-ordered observations into a Timeline.
// Preserves the input order within each platform.
func FromRecords(records []models.PriceRecord) *Timeline {
	tl := &Timeline{Records: make(map[string][]models.PriceRecord)}
	for _, r := range records {
		tl.Records[r.Platform] = append(tl.Records[r.Platform], r)
	}
	for _, p := range models.Platforms {
		if len(tl.Records[p]) > 0 {
			tl.Platforms = append(tl.Platforms, p)
		}
	}
	return tl
}

// Point is one plotted value, positioned by its half-day bucket label.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one named line of the overlay chart.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// TableRow is one line of the companion detail table.
type TableRow struct {
	Label           string  `json:"label"`
	Platform        string  `json:"platform"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discounted_price"`
	DiscountStart   string  `json:"discount_start"`
	DiscountEnd     string  `json:"discount_end"`
}

// Overlay is everything the rendering layer needs: the chart series, the
// flattened detail rows, and a suggested y-axis ceiling.
type Overlay struct {
	Series []Series   `json:"series"`
	Rows   []TableRow `json:"rows"`
	YMax   float64    `json:"y_max"`
}

// HalfDayBucket maps a timestamp to its display bucket: HD1 before hour 12,
// HD2 from 12 onward, joined with the day/month/year. Ingestion may run
// several times a day and the chart collapses same-half-day runs onto one
// x-axis tick.
func HalfDayBucket(t time.Time) string {
	half := "HD1"
	if t.Hour() >= 12 {
		half = "HD2"
	}
	return half + "-" + t.Format("02/01/06")
}

// BuildOverlay derives the renderable overlay from a timeline: one base
// series per platform (price > 0) plus one promo series per platform
// (discounted price > 0 and window valid at capture time). Pure function of
// its input; an empty timeline yields an empty overlay, never an error.
func BuildOverlay(tl *Timeline) *Overlay {
	out := &Overlay{
		Series: []Series{},
		Rows:   []TableRow{},
	}

	max := 0.0
	for _, platform := range tl.Platforms {
		var base, promo []Point
		for _, r := range tl.Records[platform] {
			label := HalfDayBucket(r.Timestamp)
			if r.Price > 0 {
				base = append(base, Point{Label: label, Value: r.Price})
				if r.Price > max {
					max = r.Price
				}
			}
			if r.DiscountedPrice > 0 && promoActive(r) {
				promo = append(promo, Point{Label: label, Value: r.DiscountedPrice})
				if r.DiscountedPrice > max {
					max = r.DiscountedPrice
				}
			}
			out.Rows = append(out.Rows, TableRow{
				Label:           label,
				Platform:        platform,
				Price:           r.Price,
				DiscountedPrice: r.DiscountedPrice,
				DiscountStart:   r.DiscountStart,
				DiscountEnd:     r.DiscountEnd,
			})
		}
		if len(base) > 0 {
			out.Series = append(out.Series, Series{Name: platform + " price", Points: base})
		}
		if len(promo) > 0 {
			out.Series = append(out.Series, Series{Name: platform + " promo", Points: promo})
		}
	}

	if max > 0 {
		out.YMax = max * 1.1
	} else {
		// keep a degenerate chart from collapsing to zero height
		out.YMax = 1
	}
	return out
}

// promoActive reports whether the observation's promo window was in force
// when the observation was captured. Both bounds must be present and parse;
// the interval is inclusive on both ends.
func promoActive(r models.PriceRecord) bool {
	if r.DiscountStart == "" || r.DiscountEnd == "" {
		return false
	}
	start, ok := parseDiscountDate(r.DiscountStart, false)
	if !ok {
		return false
	}
	end, ok := parseDiscountDate(r.DiscountEnd, true)
	if !ok {
		return false
	}
	return !r.Timestamp.Before(start) && !r.Timestamp.After(end)
}

var discountDateLayouts = []struct {
	layout  string
	dateOnly bool
}{
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{time.RFC3339, false},
	{"2006-01-02", true},
	{"02/01/2006 15:04:05", false},
	{"02/01/2006", true},
}

// parseDiscountDate parses one window bound. A date-only upper bound covers
// its whole day, so the window stays inclusive through the declared end date.
func parseDiscountDate(raw string, upper bool) (time.Time, bool) {
	for _, l := range discountDateLayouts {
		t, err := time.ParseInLocation(l.layout, raw, time.UTC)
		if err != nil {
			continue
		}
		if upper && l.dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return t, true
	}
	return time.Time{}, false
}
