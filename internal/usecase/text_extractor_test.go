package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountsOf(observations []domain.PriceObservation) []int64 {
	amounts := make([]int64, 0, len(observations))
	for _, obs := range observations {
		amounts = append(amounts, obs.Amount)
	}
	return amounts
}

func sourcesOf(observations []domain.PriceObservation) []string {
	sources := make([]string, 0, len(observations))
	for _, obs := range observations {
		sources = append(sources, obs.Source)
	}
	return sources
}

func TestTextExtractor_Extract(t *testing.T) {
	e := NewTextExtractor(domain.DefaultPricePolicy(), false)

	t.Run("merchant mentions", func(t *testing.T) {
		got := e.Extract("쿠팡 99,000원 할인, 11번가 105,000원", "무선청소기")

		require.Len(t, got, 2)
		assert.Equal(t, domain.PriceObservation{Source: "쿠팡", Amount: 99000, Display: "99,000원"}, got[0])
		assert.Equal(t, domain.PriceObservation{Source: "11번가", Amount: 105000, Display: "105,000원"}, got[1])
	})

	t.Run("spelling variants map to one merchant", func(t *testing.T) {
		got := e.Extract("지마켓 최저 45,000원 / g마켓 47,000원", "")

		assert.ElementsMatch(t, []string{"G마켓", "G마켓"}, sourcesOf(got))
		assert.ElementsMatch(t, []int64{45000, 47000}, amountsOf(got))
	})

	t.Run("all patterns applied in declaration order", func(t *testing.T) {
		got := e.Extract("SSG 31,000원, 롯데ON 30,500원, 옥션 29,900원, 인터파크 32,000원", "")

		assert.Equal(t, []string{"옥션", "인터파크", "롯데온", "SSG"}, sourcesOf(got))
	})

	t.Run("generic patterns when merchant hits are scarce", func(t *testing.T) {
		got := e.Extract("가격: 23,000원 다른 곳은 23,400원, 최저가 19,900원", "")

		assert.Equal(t, []int64{23000, 19900}, amountsOf(got))
		assert.Equal(t, []string{domain.SourceOnline, domain.SourceOnline}, sourcesOf(got))
	})

	t.Run("generic hits skip restatements of merchant prices", func(t *testing.T) {
		got := e.Extract("쿠팡 99,000원 (정가 99,500원) 배송비 3,000원", "")

		assert.Equal(t, []int64{99000, 3000}, amountsOf(got))
		assert.Equal(t, []string{"쿠팡", domain.SourceOnline}, sourcesOf(got))
	})

	t.Run("generic patterns skipped with three merchant hits", func(t *testing.T) {
		got := e.Extract("쿠팡 10,000원 11번가 20,000원 옥션 30,000원 그 외 40,000원", "")

		assert.Equal(t, []int64{10000, 20000, 30000}, amountsOf(got))
	})

	t.Run("out of range and decimal amounts dropped", func(t *testing.T) {
		got := e.Extract("쿠팡 500원, 11번가 999,999,999원, 옥션 12.5원", "")

		assert.Empty(t, got)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, e.Extract("", "query"))
	})
}

func TestTextExtractor_CustomBounds(t *testing.T) {
	policy := domain.DefaultPricePolicy()
	policy.MinAmount = 100

	e := NewTextExtractor(policy, true)
	got := e.Extract("쿠팡 500원", "")

	assert.Equal(t, []int64{500}, amountsOf(got))
}
