package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMerchant(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"쿠팡", "쿠팡"},
		{"지마켓", "G마켓"},
		{"g마켓", "G마켓"},
		{"G마켓", "G마켓"},
		{"Gmarket", "G마켓"},
		{"롯데", "롯데온"},
		{"ssg", "SSG"},
		{" 11번가 ", "11번가"},
		{"무신사", "무신사"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, CanonicalMerchant(tc.input))
		})
	}
}

func TestDefaultMerchantPatterns(t *testing.T) {
	patterns := DefaultMerchantPatterns()

	require.Len(t, patterns, len(merchantAliases))
	merchants := make([]string, 0, len(patterns))
	for _, p := range patterns {
		merchants = append(merchants, p.Merchant)
	}
	assert.Equal(t, []string{"쿠팡", "11번가", "G마켓", "G마켓", "옥션", "인터파크", "롯데온", "SSG"}, merchants)

	m := patterns[0].Pattern.FindStringSubmatch("쿠팡 로켓배송 특가 1,290,000원")
	require.Len(t, m, 2)
	assert.Equal(t, "1,290,000", m[1])

	assert.True(t, patterns[len(patterns)-1].Pattern.MatchString("ssg.com 45,000원"))
}

func TestMerchantForURL(t *testing.T) {
	testCases := []struct {
		url  string
		want string
	}{
		{"https://www.coupang.com/vp/products/1", "쿠팡"},
		{"https://search.11st.co.kr/Search.tmall", "11번가"},
		{"http://browse.gmarket.co.kr/search", "G마켓"},
		{"http://itemsearch.auction.co.kr/search", "옥션"},
		{"http://shopping.interpark.com/search.do", "인터파크"},
		{"https://shop.example.com/p/1", domain.SourceShoppingMall},
		{"", domain.SourceShoppingMall},
		{"://bad", domain.SourceShoppingMall},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, MerchantForURL(tc.url))
		})
	}
}

func TestDefaultMerchantSites(t *testing.T) {
	sites := DefaultMerchantSites()

	require.Len(t, sites, 5)
	for _, site := range sites {
		assert.Contains(t, site.SearchURL, "%s", site.Name)
		assert.Equal(t, site.Name, MerchantForURL(site.SearchURL))
	}
}
