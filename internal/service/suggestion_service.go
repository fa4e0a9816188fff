package service

import (
	"context"
	"sort"
	"time"

	"github.com/DistriaGit/distria_api/internal/config"
	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
)

// SuggestionService ranks product recommendations for a client at a reference
// time. It only reads: products, inventory lots, and order history. Features
// are recomputed on every call and never persisted.
type SuggestionService struct {
	productRepo  *repository.ProductRepository
	orderRepo    *repository.OrderRepository
	invRepo      *repository.InventoryRepository
	customerRepo *repository.CustomerRepository
	cfg          config.SuggestionConfig
}

// NewSuggestionService constructs a SuggestionService.
func NewSuggestionService(productRepo *repository.ProductRepository, orderRepo *repository.OrderRepository,
	invRepo *repository.InventoryRepository, customerRepo *repository.CustomerRepository,
	cfg config.SuggestionConfig) *SuggestionService {
	return &SuggestionService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		invRepo:      invRepo,
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// SuggestProducts computes a ranked, explainable list of recommendations for
// one client. Repeated calls with identical inputs against unchanged data
// return identical ordering. An empty result is not an error.
func (s *SuggestionService) SuggestProducts(ctx context.Context, distributorID, customerID int, asOf time.Time, topN int) ([]models.SuggestedProduct, error) {
	if _, err := s.customerRepo.GetByID(distributorID, customerID); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	if topN <= 0 {
		topN = s.cfg.DefaultTopN
	}

	products, err := s.productRepo.ListActive(distributorID)
	if err != nil {
		return nil, err
	}
	clientStats, err := s.orderRepo.ClientProductStats(distributorID, customerID, asOf.Add(-s.cfg.ClientWindow), asOf)
	if err != nil {
		return nil, err
	}
	globalStats, err := s.orderRepo.GlobalProductStats(distributorID, asOf.Add(-s.cfg.GlobalWindow), asOf)
	if err != nil {
		return nil, err
	}
	firstTimes, err := s.orderRepo.FirstOrderTimes(distributorID)
	if err != nil {
		return nil, err
	}
	stocks, err := s.invRepo.StockSummaries(distributorID)
	if err != nil {
		return nil, err
	}

	ranked := rankSuggestions(products, clientStats, globalStats, firstTimes, stocks, asOf, s.cfg)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// rankSuggestions is the pure scoring core. Candidates are active products
// with stock, plus out-of-stock products the client bought inside the history
// window (surfaced with hasStock=false so the agent can say so instead of
// silently dropping a habitual purchase).
func rankSuggestions(products []models.Product,
	clientStats []repository.ClientProductStat,
	globalStats []repository.GlobalProductStat,
	firstTimes []repository.FirstOrderTime,
	stocks []repository.StockSummary,
	asOf time.Time, cfg config.SuggestionConfig) []models.SuggestedProduct {

	clientByProduct := make(map[int]repository.ClientProductStat, len(clientStats))
	for _, cs := range clientStats {
		clientByProduct[cs.ProductID] = cs
	}
	globalByProduct := make(map[int]repository.GlobalProductStat, len(globalStats))
	for _, gs := range globalStats {
		globalByProduct[gs.ProductID] = gs
	}
	firstByProduct := make(map[int]time.Time, len(firstTimes))
	for _, ft := range firstTimes {
		if ft.FirstAt.Valid {
			firstByProduct[ft.ProductID] = ft.FirstAt.Time
		}
	}
	stockByProduct := make(map[int]repository.StockSummary, len(stocks))
	for _, ss := range stocks {
		stockByProduct[ss.ProductID] = ss
	}

	globalWindowStart := asOf.Add(-cfg.GlobalWindow)

	candidates := make([]models.SuggestedProduct, 0, len(products))
	for _, p := range products {
		stock := stockByProduct[p.ID]
		client, bought := clientByProduct[p.ID]
		if stock.StockTotal <= 0 && !bought {
			continue
		}

		f := models.SuggestionFeatures{
			ClientOrderCount26w: client.OrderCount,
			ClientQty26w:        client.Quantity,
			ClientBoughtBefore:  bought,
			StockTotal:          stock.StockTotal,
			HasStock:            stock.StockTotal > 0,
		}
		if client.LastBuyAt.Valid {
			t := client.LastBuyAt.Time
			f.LastBuyAt = &t
		}
		if g, ok := globalByProduct[p.ID]; ok {
			f.GlobalOrderCount1y = g.OrderCount
			f.GlobalBuyerCount1y = g.BuyerCount
			f.GlobalQty1y = g.Quantity
		}
		// A product is new when its first recorded sale falls inside the
		// global window, or it has never sold and was created inside it.
		if first, ok := firstByProduct[p.ID]; ok {
			f.IsNew = !first.Before(globalWindowStart)
		} else {
			f.IsNew = !p.CreatedAt.Before(globalWindowStart)
		}
		if f.HasStock && stock.MinExpiry != nil {
			days := int(stock.MinExpiry.Sub(asOf).Hours() / 24)
			f.MinDaysToExpiry = &days
			f.ExpiringSoon = days <= cfg.ExpirySoonDays
		}

		candidates = append(candidates, models.SuggestedProduct{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.EffectivePrice(),
			Features:  f,
		})
	}

	scoreSuggestions(candidates, asOf, cfg)

	sort.Slice(candidates, func(i, j int) bool {
		return suggestionLess(&candidates[i], &candidates[j])
	})
	return candidates
}

// scoreSuggestions assigns each candidate a weighted score. Component scores
// are normalized within the candidate set so weights stay comparable across
// catalogs of different sizes.
func scoreSuggestions(candidates []models.SuggestedProduct, asOf time.Time, cfg config.SuggestionConfig) {
	maxClientOrders, maxGlobalOrders, maxGlobalBuyers := 0, 0, 0
	for i := range candidates {
		f := &candidates[i].Features
		if f.ClientOrderCount26w > maxClientOrders {
			maxClientOrders = f.ClientOrderCount26w
		}
		if f.GlobalOrderCount1y > maxGlobalOrders {
			maxGlobalOrders = f.GlobalOrderCount1y
		}
		if f.GlobalBuyerCount1y > maxGlobalBuyers {
			maxGlobalBuyers = f.GlobalBuyerCount1y
		}
	}

	halfClientWindow := cfg.ClientWindow / 2

	for i := range candidates {
		f := &candidates[i].Features

		hist := 0.0
		if f.ClientBoughtBefore {
			hist = 0.7 * ratio(f.ClientOrderCount26w, maxClientOrders)
			if f.LastBuyAt != nil && halfClientWindow > 0 {
				recency := 1 - float64(asOf.Sub(*f.LastBuyAt))/float64(halfClientWindow)
				hist += 0.3 * clamp01(recency)
			}
		}

		pop := 0.5*ratio(f.GlobalOrderCount1y, maxGlobalOrders) + 0.5*ratio(f.GlobalBuyerCount1y, maxGlobalBuyers)

		expiry := 0.0
		if f.HasStock && f.ExpiringSoon && f.MinDaysToExpiry != nil {
			days := *f.MinDaysToExpiry
			if days < 0 {
				days = 0
			}
			expiry = float64(cfg.ExpirySoonDays+1-days) / float64(cfg.ExpirySoonDays+1)
		}

		novelty := 0.0
		if f.IsNew {
			novelty = 1.0
		}

		candidates[i].Score = cfg.WeightHistory*hist +
			cfg.WeightPopularity*pop +
			cfg.WeightExpiry*expiry +
			cfg.WeightNovelty*novelty
	}
}

// suggestionLess fixes the deterministic ordering: score, then client-history
// match, then expiring-soon with stock, then global popularity, then SKU.
func suggestionLess(a, b *models.SuggestedProduct) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Features.ClientBoughtBefore != b.Features.ClientBoughtBefore {
		return a.Features.ClientBoughtBefore
	}
	aUrgent := a.Features.ExpiringSoon && a.Features.HasStock
	bUrgent := b.Features.ExpiringSoon && b.Features.HasStock
	if aUrgent != bUrgent {
		return aUrgent
	}
	if a.Features.GlobalOrderCount1y != b.Features.GlobalOrderCount1y {
		return a.Features.GlobalOrderCount1y > b.Features.GlobalOrderCount1y
	}
	return a.SKU < b.SKU
}

func ratio(v, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(v) / float64(max)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
