package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		jsonOutput, verbose, failEmpty = false, false, false
		markupFile, markupBase, markupQuery = "-", "", ""
		textFile, textQuery = "-", ""
	})

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestTextCommand(t *testing.T) {
	out, err := runCLI(t, "쿠팡 99,000원 할인, 11번가 105,000원", "text", "--query", "무선청소기")

	require.NoError(t, err)
	assert.Contains(t, out, "'무선청소기' 가격 비교 완료!")
	assert.Contains(t, out, "🥇 **쿠팡**: 99,000원")
}

func TestTextCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "G마켓 45,000원", "text", "--json", "-q", "텀블러")
	require.NoError(t, err)

	var report domain.ComparisonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.StrategySnippet, report.Strategy)
	require.Len(t, report.Observations, 1)
	assert.Equal(t, int64(45000), report.Observations[0].Amount)
}

func TestMarkupCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	html := `<div class="product"><h3 class="product-name">Widget</h3><span class="price">150,000원</span><a href="/p/1">x</a></div>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	out, err := runCLI(t, "", "markup", "--file", path, "--base", "https://test.com/", "--json")
	require.NoError(t, err)

	var report domain.ComparisonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Observations, 1)
	assert.Equal(t, "https://test.com/p/1", report.Observations[0].URL)
}

func TestFailEmpty(t *testing.T) {
	out, err := runCLI(t, "가격 없음", "text", "--fail-empty", "-q", "없는상품")

	assert.ErrorIs(t, err, domain.ErrNoPrices)
	assert.Contains(t, out, "검색 결과가 없습니다")
}

func TestSearchCommand_RequiresQuery(t *testing.T) {
	_, err := runCLI(t, "", "search")

	assert.Error(t, err)
}
