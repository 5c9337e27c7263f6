// Package extract turns a single listing element into a schema.Record,
// applying per-field selection rules and transforms. No field failure ever
// aborts the others; failures resolve to absence.
package extract

import (
	"log/slog"
	"strings"

	"github.com/scoutloop/listingscout/internal/schema"
)

// Selection rules for one listing card on the results page. The shipping
// cost has a fallback rule covering the "free N day shipping" variant.
var (
	ruleTitle           = Rule{Engine: EngineCSS, Query: "div.s-item__title span"}
	ruleLink            = Rule{Engine: EngineCSS, Query: "a.s-item__link", Attribute: "href"}
	ruleSellerInfo      = Rule{Engine: EngineCSS, Query: "span.s-item__seller-info-text"}
	ruleImage           = Rule{Engine: EngineCSS, Query: "div.s-item__image-wrapper img", Attribute: "src"}
	rulePrice           = Rule{Engine: EngineCSS, Query: "span.s-item__price"}
	ruleShipping        = Rule{Engine: EngineCSS, Query: "span.s-item__shipping"}
	ruleShippingFreeAlt = Rule{Engine: EngineXPath, Query: `//span[contains(@class, "s-item__freeXDays")]`}
)

// Extractor extracts record fields from parsed listing elements.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("component", "extractor")}
}

// Extract reads every schema field from one listing element. Fields that
// cannot be read are simply absent from the returned record.
func (e *Extractor) Extract(listing *Listing, keyword string) *schema.Record {
	rec := schema.NewRecord(keyword)
	rec.Set(schema.FieldKeyword, keyword)

	if title, ok := e.lookup(listing, ruleTitle); ok {
		rec.Set(schema.FieldTitle, EscapeQuotes(title))
	}

	if href, ok := e.lookup(listing, ruleLink); ok {
		cleaned := CleanProductURL(href)
		rec.Set(schema.FieldTitleHref, cleaned)
		if id := ItemIDFromURL(cleaned); id != "" {
			rec.Set(schema.FieldItemID, id)
		}
	}

	if info, ok := e.lookup(listing, ruleSellerInfo); ok {
		seller, _, _ := strings.Cut(info, "(")
		seller = strings.TrimSpace(seller)
		if seller != "" {
			rec.Set(schema.FieldSeller, seller)
			rec.Set(schema.FieldSellerLink, SellerSearchURL(seller))
		}
	}

	if src, ok := e.lookup(listing, ruleImage); ok {
		rec.Set(schema.FieldImageURL, src)
	}

	if text, ok := e.lookup(listing, rulePrice); ok {
		if price, ok := ParsePrice(text); ok {
			rec.Set(schema.FieldPrice, price)
		} else {
			e.logger.Debug("unparseable price", "keyword", keyword, "text", text)
		}
	}

	// First non-empty shipping value wins; both rules failing leaves the
	// field absent.
	if text, ok := e.lookup(listing, ruleShipping); ok {
		rec.Set(schema.FieldShipping, text)
	} else if text, ok := e.lookup(listing, ruleShippingFreeAlt); ok {
		rec.Set(schema.FieldShipping, text)
	}

	return rec
}

func (e *Extractor) lookup(listing *Listing, r Rule) (string, bool) {
	v, ok := listing.Lookup(r)
	if !ok {
		e.logger.Debug("field not found", "query", r.Query)
	}
	return v, ok
}
