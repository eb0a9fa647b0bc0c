package usecase

import (
	"fmt"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	maxListedNameLength = 30
	maxVerifyNameLength = 40
)

var rankMarks = []string{"🥇", "🥈", "🥉"}

var purchaseChecklist = []string{
	"🚚 **배송비** 포함 최종 가격 확인",
	"🏷️ **할인 쿠폰** 및 적립금 혜택 확인",
	"⭐ **판매자 평점** 및 **상품 리뷰** 확인",
	"🛡️ **A/S 정책** 및 **교환/환불** 조건 확인",
}

// ReportFormatter renders ranked observations as a comparison report for display
type ReportFormatter struct {
	displayRows int
	verifyRows  int
}

// NewReportFormatter creates a formatter showing up to policy.DisplayRows ranked entries
func NewReportFormatter(policy domain.PricePolicy) *ReportFormatter {
	defaults := domain.DefaultPricePolicy()
	displayRows := policy.DisplayRows
	if displayRows <= 0 {
		displayRows = defaults.DisplayRows
	}
	verifyRows := policy.VerifyRows
	if verifyRows <= 0 {
		verifyRows = defaults.VerifyRows
	}
	return &ReportFormatter{displayRows: displayRows, verifyRows: verifyRows}
}

// Format builds the report. Priced observations are expected in ascending order, as
// produced by the Normalizer; unpriced ones are listed separately for manual checking.
func (f *ReportFormatter) Format(observations []domain.PriceObservation, query string) string {
	if len(observations) == 0 {
		return noResultsMessage(query)
	}

	var priced, unpriced []domain.PriceObservation
	for _, obs := range observations {
		if obs.HasPrice() {
			priced = append(priced, obs)
		} else {
			unpriced = append(unpriced, obs)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 **'%s' 가격 비교 완료!** (총 %d개 발견)\n\n", query, len(observations))

	if len(priced) > 0 {
		f.writeDecisionGuide(&b, priced)
		f.writeRanking(&b, priced)
		if len(priced) >= 2 {
			f.writeAnalysis(&b, priced)
		}
	}

	if len(unpriced) > 0 {
		f.writeVerification(&b, unpriced)
	}

	b.WriteString("## ✅ **구매 전 체크리스트**\n")
	for _, item := range purchaseChecklist {
		b.WriteString(item + "\n")
	}
	b.WriteString("\n⚡ **5분 안에 최적의 선택을 하셨습니다!**")

	return b.String()
}

func (f *ReportFormatter) writeDecisionGuide(b *strings.Builder, priced []domain.PriceObservation) {
	lowest := priced[0]
	highest := priced[len(priced)-1]

	b.WriteString("## 🚀 **즉시 결정 가이드**\n\n")
	fmt.Fprintf(b, "💰 **추천 최저가**: %s ← **%s**\n", lowest.Display, lowest.Source)

	if len(priced) > 1 {
		fmt.Fprintf(b, "💡 **절약 효과**: 최대 %s 절약 가능!\n", formatWon(highest.Amount-lowest.Amount))

		if savings := averageAmount(priced).Sub(decimal.NewFromInt(lowest.Amount)); savings.IsPositive() {
			fmt.Fprintf(b, "📊 **평균가 대비**: %s 저렴\n", formatWon(savings.Round(0).IntPart()))
		}
	}
	b.WriteString("\n")
}

func (f *ReportFormatter) writeRanking(b *strings.Builder, priced []domain.PriceObservation) {
	lowest := priced[0]

	b.WriteString("## ⚡ **3초 가격 비교**\n\n")
	for i, obs := range priced {
		if i >= f.displayRows {
			break
		}
		rank := fmt.Sprintf("%d위", i+1)
		if i < len(rankMarks) {
			rank = rankMarks[i]
		}

		price := obs.Display
		if i > 0 {
			price += fmt.Sprintf(" *(+%s)*", formatWon(obs.Amount-lowest.Amount))
		}

		fmt.Fprintf(b, "%s **%s**: %s\n", rank, obs.Source, price)
		if obs.Name != "" {
			fmt.Fprintf(b, "   📦 %s\n", truncateName(obs.Name, maxListedNameLength))
		}
		b.WriteString("\n")
	}
}

func (f *ReportFormatter) writeAnalysis(b *strings.Builder, priced []domain.PriceObservation) {
	b.WriteString("## 🎯 **구매 결정 지원**\n\n")
	fmt.Fprintf(b, "💵 **가격 범위**: %s ~ %s\n",
		formatWon(priced[0].Amount), formatWon(priced[len(priced)-1].Amount))

	if len(priced) >= 3 {
		mid := priced[len(priced)/2]
		fmt.Fprintf(b, "🎯 **중간 가격대**: %s (%s)\n", mid.Display, mid.Source)
	}

	present := make(map[string]bool, len(priced))
	for _, obs := range priced {
		present[obs.Source] = true
	}
	var tips []string
	for _, t := range merchantTips {
		if present[t.merchant] {
			tips = append(tips, fmt.Sprintf("• %s: %s", t.merchant, t.tip))
		}
	}
	if len(tips) > 0 {
		b.WriteString("\n📝 **쇼핑 팁**:\n")
		b.WriteString(strings.Join(tips, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (f *ReportFormatter) writeVerification(b *strings.Builder, unpriced []domain.PriceObservation) {
	b.WriteString("## 📋 **추가 확인 필요**\n\n")
	for i, obs := range unpriced {
		if i >= f.verifyRows {
			break
		}
		fmt.Fprintf(b, "• **%s** (%s) - 가격 확인 필요\n", truncateName(obs.Name, maxVerifyNameLength), obs.Source)
	}
	b.WriteString("\n")
}

// averageAmount is the exact mean of the priced amounts
func averageAmount(priced []domain.PriceObservation) decimal.Decimal {
	sum := decimal.Zero
	for _, obs := range priced {
		sum = sum.Add(decimal.NewFromInt(obs.Amount))
	}
	return sum.Div(decimal.NewFromInt(int64(len(priced))))
}

func truncateName(name string, limit int) string {
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}
	return string(runes[:limit]) + "..."
}

// noResultsMessage suggests ways to refine a query that produced nothing
func noResultsMessage(query string) string {
	return fmt.Sprintf(`🔍 **'%[1]s' 검색 결과가 없습니다.**

💡 **빠른 검색 개선 방법:**
⚡ **즉시 시도해보세요:**
- 더 구체적인 상품명: "%[1]s 128GB", "%[1]s 2024년"
- 브랜드명 추가: "삼성 %[1]s", "애플 %[1]s"
- 영문/한글 전환으로 재검색

🏃‍♂️ **5초만에 다시 찾기:**
- 핵심 키워드만 입력 (예: "아이폰15", "갤럭시S24")
- 숫자나 특수문자 제거하고 재시도`, query)
}
