package usecase

import (
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

const (
	maxContainersPerSchema = 10
	maxRecordsPerDocument  = 5
	minProductNameLength   = 2
	maxDescriptionLength   = 100
)

// defaultSelectorSchemas are tried in order: generic containers, merchant layouts, list fallbacks
var defaultSelectorSchemas = []domain.SelectorSchema{
	{Layout: "product", Container: ".product", Name: "h2, h3, .product-name", Price: ".price, .product-price", Link: "a"},
	{Layout: "product-item", Container: ".product-item", Name: "h2, h3, .title", Price: ".price, .cost", Link: "a"},
	{Layout: "item", Container: ".item", Name: ".name, .title, h3", Price: ".price, .cost", Link: "a"},
	{Layout: "goods", Container: ".goods", Name: ".goods-name, h3", Price: ".price, .cost", Link: "a"},

	{Layout: "coupang", Container: ".search-product", Name: ".name", Price: ".price-value", Link: "a"},
	{Layout: "11st", Container: ".c_prd_item", Name: ".prd_name", Price: ".price_real", Link: "a"},
	{Layout: "gmarket", Container: ".box__item-container", Name: ".text__item", Price: ".text_price", Link: "a"},

	{Layout: "li", Container: "li", Name: "h2, h3, .title, .name", Price: ".price, .cost", Link: "a"},
	{Layout: "list-item", Container: ".list-item", Name: ".title, .name", Price: ".price", Link: "a"},
}

// fallbackPriceSelectors are probed when a schema's own price selector finds nothing
var fallbackPriceSelectors = []string{
	".price", ".cost", ".amount", `[class*="price"]`, `[class*="cost"]`,
	".sale-price", ".final-price", ".current-price", ".product-price",
	"[data-price]", ".price-now", ".price-real", ".price-value",
}

var descriptionSelectors = []string{".description", ".summary", ".spec"}

// MarkupExtractor pulls product observations out of shop listing HTML
type MarkupExtractor struct {
	schemas            []domain.SelectorSchema
	enableDebugLogging bool
}

// NewMarkupExtractor creates an extractor using the built-in selector schemas
func NewMarkupExtractor(enableDebugLogging bool) *MarkupExtractor {
	return NewMarkupExtractorWithSchemas(defaultSelectorSchemas, enableDebugLogging)
}

// NewMarkupExtractorWithSchemas creates an extractor trying the given schemas in order
func NewMarkupExtractorWithSchemas(schemas []domain.SelectorSchema, enableDebugLogging bool) *MarkupExtractor {
	return &MarkupExtractor{
		schemas:            schemas,
		enableDebugLogging: enableDebugLogging,
	}
}

// Extract returns at most five observations found in document.
// baseURL is only used to resolve relative links and to attribute the merchant.
func (e *MarkupExtractor) Extract(document, baseURL string) []domain.PriceObservation {
	if strings.TrimSpace(document) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		log.Printf("[MARKUP] HTML parse error: %v", err)
		return nil
	}

	source := MerchantForURL(baseURL)

	var base *url.URL
	if baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			base = parsed
		}
	}

	var records []domain.PriceObservation
	for _, schema := range e.schemas {
		doc.Find(schema.Container).EachWithBreak(func(i int, container *goquery.Selection) bool {
			if i >= maxContainersPerSchema {
				return false
			}
			if record, ok := e.extractRecord(container, schema, base, source); ok {
				records = append(records, record)
			}
			return true
		})

		if len(records) > 0 {
			if e.enableDebugLogging {
				log.Printf("[MARKUP] Layout %q matched %d records (source: %s)", schema.Layout, len(records), source)
			}
			break
		}
	}

	if len(records) > maxRecordsPerDocument {
		records = records[:maxRecordsPerDocument]
	}
	return records
}

// extractRecord reads one container; ok is false when it has no usable product name
func (e *MarkupExtractor) extractRecord(
	container *goquery.Selection,
	schema domain.SelectorSchema,
	base *url.URL,
	source string,
) (record domain.PriceObservation, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MARKUP] Skipping container in layout %q: %v", schema.Layout, r)
			ok = false
		}
	}()

	name := strings.TrimSpace(container.Find(schema.Name).First().Text())
	if len([]rune(name)) < minProductNameLength {
		return domain.PriceObservation{}, false
	}

	amount, display := readPrice(findPriceElement(container, schema.Price))

	return domain.PriceObservation{
		Source:      source,
		Amount:      amount,
		Display:     display,
		Name:        name,
		URL:         resolveLink(container.Find(schema.Link).First(), base),
		Description: readDescription(container),
	}, true
}

// findPriceElement tries the schema selector first, then the generic fallbacks
func findPriceElement(container *goquery.Selection, selector string) *goquery.Selection {
	if found := container.Find(selector).First(); found.Length() > 0 {
		return found
	}
	for _, fallback := range fallbackPriceSelectors {
		if found := container.Find(fallback).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// readPrice turns a price element into an amount and its display text.
// Unparsable text that still contains a digit is kept as-is with a zero amount.
func readPrice(element *goquery.Selection) (int64, string) {
	if element == nil {
		return 0, domain.PriceUnavailable
	}
	text := strings.TrimSpace(element.Text())

	if amount, ok := minimumPrice(text); ok {
		return amount, formatWon(amount)
	}
	if containsDigit(text) {
		return 0, text
	}
	return 0, domain.PriceUnavailable
}

// resolveLink returns absolute hrefs unchanged and resolves relative ones against base
func resolveLink(link *goquery.Selection, base *url.URL) string {
	href, exists := link.Attr("href")
	href = strings.TrimSpace(href)
	if !exists || href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	if base == nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func readDescription(container *goquery.Selection) string {
	for _, selector := range descriptionSelectors {
		if found := container.Find(selector).First(); found.Length() > 0 {
			text := []rune(strings.TrimSpace(found.Text()))
			if len(text) > maxDescriptionLength {
				text = text[:maxDescriptionLength]
			}
			return string(text)
		}
	}
	return ""
}
