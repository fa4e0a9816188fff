package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DistriaGit/distria_api/internal/config"
	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
)

func suggestionConfig() config.SuggestionConfig {
	return config.SuggestionConfig{
		WeightHistory:    0.45,
		WeightPopularity: 0.25,
		WeightExpiry:     0.20,
		WeightNovelty:    0.10,
		ExpirySoonDays:   30,
		ClientWindow:     26 * 7 * 24 * time.Hour,
		GlobalWindow:     52 * 7 * 24 * time.Hour,
		DefaultTopN:      5,
	}
}

func product(id int, sku, name string, createdDaysAgo int, asOf time.Time) models.Product {
	return models.Product{
		ID:        id,
		SKU:       sku,
		Name:      name,
		BasePrice: decimal.NewFromInt(100),
		IsActive:  true,
		CreatedAt: asOf.AddDate(0, 0, -createdDaysAgo),
	}
}

func stock(productID, total int, minExpiry *time.Time) repository.StockSummary {
	return repository.StockSummary{ProductID: productID, StockTotal: total, MinExpiry: minExpiry}
}

func TestRankSuggestionsCandidateSet(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	products := []models.Product{
		product(1, "SKU-A", "Arroz", 700, asOf),  // stock, never bought
		product(2, "SKU-B", "Azúcar", 700, asOf), // no stock, bought before
		product(3, "SKU-C", "Harina", 700, asOf), // no stock, never bought
	}
	clientStats := []repository.ClientProductStat{
		{ProductID: 2, OrderCount: 4, Quantity: 20,
			LastBuyAt: sql.NullTime{Time: asOf.AddDate(0, 0, -7), Valid: true}},
	}
	stocks := []repository.StockSummary{stock(1, 12, nil)}

	ranked := rankSuggestions(products, clientStats, nil, nil, stocks, asOf, cfg)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	found := map[string]models.SuggestedProduct{}
	for _, s := range ranked {
		found[s.SKU] = s
	}
	if _, ok := found["SKU-C"]; ok {
		t.Error("out-of-stock product the client never bought must not be a candidate")
	}
	habitual, ok := found["SKU-B"]
	if !ok {
		t.Fatal("out-of-stock product the client buys regularly must stay a candidate")
	}
	if habitual.Features.HasStock {
		t.Error("habitual out-of-stock candidate must report hasStock=false")
	}
	if !habitual.Features.ClientBoughtBefore {
		t.Error("habitual candidate must report clientBoughtBefore=true")
	}
}

func TestRankSuggestionsHistoryOutranksColdProducts(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	products := []models.Product{
		product(1, "SKU-A", "Arroz", 700, asOf),
		product(2, "SKU-B", "Azúcar", 700, asOf),
	}
	clientStats := []repository.ClientProductStat{
		{ProductID: 2, OrderCount: 6, Quantity: 30,
			LastBuyAt: sql.NullTime{Time: asOf.AddDate(0, 0, -5), Valid: true}},
	}
	stocks := []repository.StockSummary{stock(1, 10, nil), stock(2, 10, nil)}

	ranked := rankSuggestions(products, clientStats, nil, nil, stocks, asOf, cfg)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].SKU != "SKU-B" {
		t.Errorf("recently repurchased product should rank first, got %s", ranked[0].SKU)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("history score %f should exceed cold score %f", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankSuggestionsColdStartUsesPopularityAndExpiry(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	soon := asOf.AddDate(0, 0, 10)
	far := asOf.AddDate(0, 0, 200)

	products := []models.Product{
		product(1, "SKU-A", "Arroz", 700, asOf),
		product(2, "SKU-B", "Azúcar", 700, asOf),
		product(3, "SKU-C", "Harina", 700, asOf),
	}
	globalStats := []repository.GlobalProductStat{
		{ProductID: 1, OrderCount: 40, BuyerCount: 12, Quantity: 200},
		{ProductID: 2, OrderCount: 5, BuyerCount: 2, Quantity: 20},
		{ProductID: 3, OrderCount: 5, BuyerCount: 2, Quantity: 20},
	}
	stocks := []repository.StockSummary{
		stock(1, 10, &far),
		stock(2, 10, &soon),
		stock(3, 10, &far),
	}

	// No client history at all: pure cold start.
	ranked := rankSuggestions(products, nil, globalStats, nil, stocks, asOf, cfg)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ranked))
	}
	for _, s := range ranked {
		if s.Features.ClientBoughtBefore {
			t.Errorf("%s: clientBoughtBefore must be false on cold start", s.SKU)
		}
	}
	if ranked[0].SKU != "SKU-A" {
		t.Errorf("most popular product should lead on cold start, got %s", ranked[0].SKU)
	}
	// Identical popularity, but SKU-B expires inside the soon window.
	if ranked[1].SKU != "SKU-B" {
		t.Errorf("expiring product should outrank its equally popular peer, got %s", ranked[1].SKU)
	}
	if !ranked[1].Features.ExpiringSoon {
		t.Error("SKU-B should be flagged expiringSoon")
	}
}

func TestRankSuggestionsDeterministic(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	var products []models.Product
	var stocks []repository.StockSummary
	for i := 1; i <= 20; i++ {
		products = append(products, product(i, sku(i), "Producto", 700, asOf))
		stocks = append(stocks, stock(i, 5, nil))
	}

	first := rankSuggestions(products, nil, nil, nil, stocks, asOf, cfg)
	second := rankSuggestions(products, nil, nil, nil, stocks, asOf, cfg)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SKU != second[i].SKU {
			t.Fatalf("order differs at %d: %s vs %s", i, first[i].SKU, second[i].SKU)
		}
	}
	// All scores equal, so ordering must fall back to SKU ascending.
	for i := 1; i < len(first); i++ {
		if first[i-1].SKU >= first[i].SKU {
			t.Errorf("tie-break by SKU violated: %s before %s", first[i-1].SKU, first[i].SKU)
		}
	}
}

func sku(i int) string {
	return string(rune('A'+i/10)) + string(rune('A'+i%10))
}

func TestRankSuggestionsNoveltyFlag(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	products := []models.Product{
		product(1, "SKU-OLD", "Viejo", 800, asOf),
		product(2, "SKU-NEW", "Nuevo", 30, asOf),
	}
	stocks := []repository.StockSummary{stock(1, 5, nil), stock(2, 5, nil)}

	ranked := rankSuggestions(products, nil, nil, nil, stocks, asOf, cfg)

	bySKU := map[string]models.SuggestedProduct{}
	for _, s := range ranked {
		bySKU[s.SKU] = s
	}
	if bySKU["SKU-OLD"].Features.IsNew {
		t.Error("product older than the global window must not be new")
	}
	if !bySKU["SKU-NEW"].Features.IsNew {
		t.Error("recently created never-sold product must be new")
	}
	if ranked[0].SKU != "SKU-NEW" {
		t.Errorf("novelty alone should break the tie, got %s first", ranked[0].SKU)
	}
}

func TestSuggestionLessTieBreaks(t *testing.T) {
	a := models.SuggestedProduct{SKU: "A", Score: 0.5}
	b := models.SuggestedProduct{SKU: "B", Score: 0.5}

	// Equal on everything: SKU ascending wins.
	if !suggestionLess(&a, &b) || suggestionLess(&b, &a) {
		t.Error("equal candidates must order by SKU ascending")
	}

	b.Features.ClientBoughtBefore = true
	if suggestionLess(&a, &b) {
		t.Error("clientBoughtBefore must outrank SKU order")
	}

	a.Features.ClientBoughtBefore = true
	a.Features.ExpiringSoon = true
	a.Features.HasStock = true
	if !suggestionLess(&a, &b) {
		t.Error("expiringSoon with stock must win the next tie level")
	}

	b.Features.ExpiringSoon = true
	b.Features.HasStock = true
	b.Features.GlobalOrderCount1y = 9
	if suggestionLess(&a, &b) {
		t.Error("higher global popularity must win the next tie level")
	}

	b.Score = 0.9
	if suggestionLess(&a, &b) {
		t.Error("score always dominates the tie-break chain")
	}
}

func TestScoreSuggestionsExpiryUrgency(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := suggestionConfig()

	five := 5
	twenty := 20
	candidates := []models.SuggestedProduct{
		{SKU: "A", Features: models.SuggestionFeatures{HasStock: true, ExpiringSoon: true, MinDaysToExpiry: &five}},
		{SKU: "B", Features: models.SuggestionFeatures{HasStock: true, ExpiringSoon: true, MinDaysToExpiry: &twenty}},
		{SKU: "C", Features: models.SuggestionFeatures{HasStock: true}},
	}

	scoreSuggestions(candidates, asOf, cfg)

	if candidates[0].Score <= candidates[1].Score {
		t.Errorf("5-day expiry (%f) must score above 20-day expiry (%f)",
			candidates[0].Score, candidates[1].Score)
	}
	if candidates[2].Score != 0 {
		t.Errorf("no history, popularity, expiry or novelty should score 0, got %f", candidates[2].Score)
	}
}
