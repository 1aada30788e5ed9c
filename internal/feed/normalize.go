package feed

import (
	"log"
	"strconv"
	"strings"
	"time"

	"price-tracker/internal/models"
)

// Feed column names. Each platform owns a four-column group keyed off its
// name; sku and quantity are shared per product line.
const (
	colSKU = "SKUs"
	colQty = "qty"

	promoSuffix = "_PrixPromo"
	startSuffix = "_DateDebut"
	endSuffix   = "_DateFin"
)

// NormalizeRow converts one wide feed row into per-platform observations
// sharing the run timestamp ts. A platform produces a record only when its
// raw price or promo cell reported something; a product with no platform
// data contributes nothing, which is expected rather than an error.
func NormalizeRow(row Row, ts time.Time) []models.PriceRecord {
	sku := strings.TrimSpace(row[colSKU])
	if sku == "" {
		return nil
	}
	qty, ok := parseQty(row[colQty])
	if !ok {
		log.Printf("skipping feed row for sku %s: unparseable qty %q", sku, row[colQty])
		return nil
	}

	var records []models.PriceRecord
	for _, platform := range models.Platforms {
		base := strings.TrimSpace(row[platform])
		promo := strings.TrimSpace(row[platform+promoSuffix])

		// The skip check runs on the raw cells, before zero substitution.
		// A literal "0" in the feed counts as reported data and still
		// produces a record; only genuinely empty cells are "missing".
		if base == "" && promo == "" {
			continue
		}

		records = append(records, models.PriceRecord{
			SKU:             sku,
			Qty:             qty,
			Platform:        platform,
			Price:           parsePrice(base),
			DiscountedPrice: parsePrice(promo),
			DiscountStart:   strings.TrimSpace(row[platform+startSuffix]),
			DiscountEnd:     strings.TrimSpace(row[platform+endSuffix]),
			Timestamp:       ts,
		})
	}
	return records
}

// parsePrice substitutes the 0 sentinel for anything that does not parse as
// a number. This runs after the raw missing-check above, so a substituted 0
// can still reach the store when the sibling cell reported data.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseQty coerces the shared quantity cell to an integer. The feed exports
// it as a whole number but occasionally with a decimal tail, so fall back to
// truncating a float before giving up on the row.
func parseQty(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
