package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// minNormalizedNameLength is exclusive: a normalized name must be longer to count as a product
const minNormalizedNameLength = 2

// Normalizer filters, deduplicates and orders extracted observations
type Normalizer struct {
	policy domain.PricePolicy
}

// NewNormalizer creates a normalizer. Zero-valued policy fields fall back to the defaults.
func NewNormalizer(policy domain.PricePolicy) *Normalizer {
	defaults := domain.DefaultPricePolicy()
	if policy.MinAmount <= 0 {
		policy.MinAmount = defaults.MinAmount
	}
	if policy.MaxAmount <= 0 {
		policy.MaxAmount = defaults.MaxAmount
	}
	if policy.DuplicateThreshold <= 0 {
		policy.DuplicateThreshold = defaults.DuplicateThreshold
	}
	if policy.SnippetLimit <= 0 {
		policy.SnippetLimit = defaults.SnippetLimit
	}
	if policy.ProductLimit <= 0 {
		policy.ProductLimit = defaults.ProductLimit
	}
	if policy.DisplayRows <= 0 {
		policy.DisplayRows = defaults.DisplayRows
	}
	if policy.VerifyRows <= 0 {
		policy.VerifyRows = defaults.VerifyRows
	}
	return &Normalizer{policy: policy}
}

// Normalize keeps plausible prices, sorts them ascending and drops near-duplicates.
// Deduplication is greedy in ascending order, so the cheapest member of a cluster of
// similar prices is the one kept. Running Normalize on its own output is a no-op.
func (n *Normalizer) Normalize(observations []domain.PriceObservation) []domain.PriceObservation {
	sorted := sortByAmount(n.inRange(observations))

	kept := make([]domain.PriceObservation, 0, len(sorted))
	for _, candidate := range sorted {
		if n.nearDuplicate(candidate.Amount, kept) {
			continue
		}
		kept = append(kept, candidate)
	}

	if len(kept) > n.policy.SnippetLimit {
		kept = kept[:n.policy.SnippetLimit]
	}
	return kept
}

// NormalizeProducts is the structured-path variant: products are deduplicated by their
// normalized name (first sighting wins) instead of by price proximity.
func (n *Normalizer) NormalizeProducts(observations []domain.PriceObservation) []domain.PriceObservation {
	seen := make(map[string]struct{})
	unique := make([]domain.PriceObservation, 0, len(observations))

	for _, obs := range n.inRange(observations) {
		key := NormalizeProductName(obs.Name)
		if len([]rune(key)) <= minNormalizedNameLength {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, obs)
	}

	unique = sortByAmount(unique)
	if len(unique) > n.policy.ProductLimit {
		unique = unique[:n.policy.ProductLimit]
	}
	return unique
}

// Policy returns the effective policy after defaults were applied
func (n *Normalizer) Policy() domain.PricePolicy {
	return n.policy
}

func (n *Normalizer) inRange(observations []domain.PriceObservation) []domain.PriceObservation {
	filtered := make([]domain.PriceObservation, 0, len(observations))
	for _, obs := range observations {
		if n.policy.InRange(obs.Amount) {
			filtered = append(filtered, obs)
		}
	}
	return filtered
}

func (n *Normalizer) nearDuplicate(amount int64, kept []domain.PriceObservation) bool {
	for _, k := range kept {
		if relativeDifference(amount, k.Amount) < n.policy.DuplicateThreshold {
			return true
		}
	}
	return false
}

// relativeDifference is |a-b| / max(a,b); both amounts are positive here
func relativeDifference(a, b int64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	larger := a
	if b > larger {
		larger = b
	}
	if larger == 0 {
		return 0
	}
	return float64(diff) / float64(larger)
}

// sortByAmount returns a copy sorted ascending; equal amounts keep their input order
func sortByAmount(observations []domain.PriceObservation) []domain.PriceObservation {
	sorted := make([]domain.PriceObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount < sorted[j].Amount
	})
	return sorted
}

// NormalizeProductName folds a product title into a dedup key: NFKC, lower case,
// and only letters, digits, underscore and Hangul kept.
func NormalizeProductName(name string) string {
	folded := strings.ToLower(norm.NFKC.String(name))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Hangul, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
