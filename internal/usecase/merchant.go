package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// merchantAliases lists the spellings looked for in free text, in match order
var merchantAliases = []string{
	"쿠팡",
	"11번가",
	"G마켓",
	"지마켓",
	"옥션",
	"인터파크",
	"롯데",
	"SSG",
}

// canonicalMerchants maps a lower-cased spelling variant to its merchant identity
var canonicalMerchants = map[string]string{
	"쿠팡":     "쿠팡",
	"coupang": "쿠팡",
	"11번가":   "11번가",
	"11st":    "11번가",
	"g마켓":    "G마켓",
	"지마켓":    "G마켓",
	"gmarket": "G마켓",
	"옥션":     "옥션",
	"auction": "옥션",
	"인터파크":   "인터파크",
	"interpark": "인터파크",
	"롯데":     "롯데온",
	"롯데온":    "롯데온",
	"lotteon": "롯데온",
	"ssg":     "SSG",
}

// merchantHosts attributes a page to a merchant by host substring, in check order
var merchantHosts = []struct {
	fragment string
	merchant string
}{
	{"coupang", "쿠팡"},
	{"11st", "11번가"},
	{"gmarket", "G마켓"},
	{"auction", "옥션"},
	{"interpark", "인터파크"},
}

// merchantTips are short shopping hints shown for merchants present in a report
var merchantTips = []struct {
	merchant string
	tip      string
}{
	{"쿠팡", "로켓배송 빠른 배송 가능"},
	{"11번가", "할인 쿠폰 및 적립금 혜택"},
	{"G마켓", "스마일카드 추가 할인"},
}

// merchantPriceTemplate is a merchant name, then the first digit group, then the won unit
const merchantPriceTemplate = `(?i)%s[^0-9]*?(\d{1,3}(?:,\d{3})*(?:\.\d+)?)[^0-9]*?원`

// CanonicalMerchant returns the merchant identity for a spelling variant.
// Unknown names are returned trimmed but otherwise unchanged.
func CanonicalMerchant(name string) string {
	trimmed := strings.TrimSpace(name)
	if merchant, ok := canonicalMerchants[strings.ToLower(trimmed)]; ok {
		return merchant
	}
	return trimmed
}

// DefaultMerchantPatterns builds one pattern per alias, keeping alias order
func DefaultMerchantPatterns() []domain.MerchantPattern {
	patterns := make([]domain.MerchantPattern, 0, len(merchantAliases))
	for _, alias := range merchantAliases {
		patterns = append(patterns, domain.MerchantPattern{
			Pattern:  regexp.MustCompile(strings.Replace(merchantPriceTemplate, "%s", regexp.QuoteMeta(alias), 1)),
			Merchant: CanonicalMerchant(alias),
		})
	}
	return patterns
}

// MerchantForURL attributes a page URL to a known merchant by its host
func MerchantForURL(rawURL string) string {
	if rawURL == "" {
		return domain.SourceShoppingMall
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return domain.SourceShoppingMall
	}
	host := strings.ToLower(parsed.Host)
	for _, h := range merchantHosts {
		if strings.Contains(host, h.fragment) {
			return h.merchant
		}
	}
	return domain.SourceShoppingMall
}

// DefaultMerchantSites returns the search pages queried for structured extraction
func DefaultMerchantSites() []domain.MerchantSite {
	return []domain.MerchantSite{
		{Name: "쿠팡", SearchURL: "https://www.coupang.com/np/search?q=%s"},
		{Name: "11번가", SearchURL: "https://search.11st.co.kr/Search.tmall?method=getTotalSearchSeller&isGnb=Y&keyword=%s"},
		{Name: "G마켓", SearchURL: "http://browse.gmarket.co.kr/search?keyword=%s"},
		{Name: "옥션", SearchURL: "http://itemsearch.auction.co.kr/search?keyword=%s"},
		{Name: "인터파크", SearchURL: "http://shopping.interpark.com/search.do?keyword=%s"},
	}
}
