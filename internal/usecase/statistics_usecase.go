package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/shopspring/decimal"
)

// StatisticsUseCase считает отчёты по текущему состоянию каталога.
// Каждый отчёт — независимая последовательность чтений из хранилища; общего изменяемого состояния нет.
type StatisticsUseCase struct {
	statsRepo ProductStatsRepository
	userRepo  UserRepository
	logger    logger.Logger
}

func NewStatisticsUC(statsRepo ProductStatsRepository, userRepo UserRepository, logger logger.Logger) *StatisticsUseCase {
	return &StatisticsUseCase{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Overview возвращает общую сводку: товары, пользователи, стоимость остатков.
func (s *StatisticsUseCase) Overview(ctx context.Context) (*OverviewStats, error) {
	const op = "StatisticsUseCase.Overview"

	total, active, inactive, err := s.activityBreakdown(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stockValue, err := s.statsRepo.Sum(ctx, domain.FieldStockValue, domain.AllProducts())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	outOfStock, lowStock, err := s.shortageBreakdown(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &OverviewStats{
		TotalProducts:      total,
		ActiveProducts:     active,
		InactiveProducts:   inactive,
		TotalUsers:         users,
		TotalStockValue:    stockValue,
		OutOfStockProducts: outOfStock,
		LowStockProducts:   lowStock,
	}, nil
}

// ProductStats возвращает статистику по товарам. Средняя цена не округляется,
// на пустом каталоге она равна 0, а максимум и минимум отсутствуют.
func (s *StatisticsUseCase) ProductStats(ctx context.Context) (*ProductStats, error) {
	const op = "StatisticsUseCase.ProductStats"

	total, active, inactive, err := s.activityBreakdown(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	avg, highest, lowest, err := s.priceExtremes(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	totalStock, stockValue, err := s.stockTotals(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	outOfStock, lowStock, err := s.shortageBreakdown(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ProductStats{
		TotalProducts:      total,
		ActiveProducts:     active,
		InactiveProducts:   inactive,
		AveragePrice:       avg.Decimal,
		HighestPrice:       highest,
		LowestPrice:        lowest,
		TotalStock:         totalStock,
		OutOfStockProducts: outOfStock,
		LowStockProducts:   lowStock,
		TotalStockValue:    stockValue,
	}, nil
}

// StockStats возвращает разбивку по остаткам и до CriticalProductsLimit критичных товаров
// по возрастанию остатка.
func (s *StatisticsUseCase) StockStats(ctx context.Context) (*StockStats, error) {
	const op = "StatisticsUseCase.StockStats"

	total, err := s.statsRepo.Count(ctx, domain.AllProducts())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	outOfStock, lowStock, err := s.shortageBreakdown(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	adequate, err := s.statsRepo.Count(ctx, domain.AdequateStock())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	totalStock, stockValue, err := s.stockTotals(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	critical, err := s.criticalProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &StockStats{
		TotalProducts:         total,
		OutOfStockProducts:    outOfStock,
		LowStockProducts:      lowStock,
		AdequateStockProducts: adequate,
		TotalStock:            totalStock,
		TotalStockValue:       stockValue,
		CriticalProducts:      critical,
	}, nil
}

// PricingStats возвращает статистику по ценам: среднее и медиану (округление до 2 знаков),
// разброс, стоимость склада и распределение по диапазонам цен.
func (s *StatisticsUseCase) PricingStats(ctx context.Context) (*PricingStats, error) {
	const op = "StatisticsUseCase.PricingStats"

	total, err := s.statsRepo.Count(ctx, domain.AllProducts())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if total == 0 {
		return &PricingStats{
			AveragePrice:        decimal.Zero,
			MedianPrice:         decimal.Zero,
			TotalInventoryValue: decimal.Zero,
			PriceDistribution:   emptyPriceDistribution(),
		}, nil
	}

	avg, highest, lowest, err := s.priceExtremes(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	median, err := s.medianPrice(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	inventoryValue, err := s.statsRepo.Sum(ctx, domain.FieldStockValue, domain.AllProducts())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	distribution, err := s.priceDistribution(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var priceRange decimal.NullDecimal
	if highest.Valid && lowest.Valid {
		priceRange = decimal.NewNullDecimal(highest.Decimal.Sub(lowest.Decimal))
	}

	return &PricingStats{
		TotalProducts:       total,
		AveragePrice:        roundPrice(avg.Decimal),
		MedianPrice:         median,
		HighestPrice:        highest,
		LowestPrice:         lowest,
		PriceRange:          priceRange,
		TotalInventoryValue: inventoryValue,
		PriceDistribution:   distribution,
	}, nil
}

// activityBreakdown считает всего / активных / неактивных товаров.
func (s *StatisticsUseCase) activityBreakdown(ctx context.Context) (total, active, inactive int64, err error) {
	if total, err = s.statsRepo.Count(ctx, domain.AllProducts()); err != nil {
		return 0, 0, 0, err
	}
	if active, err = s.statsRepo.Count(ctx, domain.ActiveProducts()); err != nil {
		return 0, 0, 0, err
	}
	if inactive, err = s.statsRepo.Count(ctx, domain.InactiveProducts()); err != nil {
		return 0, 0, 0, err
	}

	return total, active, inactive, nil
}

// shortageBreakdown считает закончившиеся и заканчивающиеся товары.
func (s *StatisticsUseCase) shortageBreakdown(ctx context.Context) (outOfStock, lowStock int64, err error) {
	if outOfStock, err = s.statsRepo.Count(ctx, domain.OutOfStock()); err != nil {
		return 0, 0, err
	}
	if lowStock, err = s.statsRepo.Count(ctx, domain.LowStock()); err != nil {
		return 0, 0, err
	}

	return outOfStock, lowStock, nil
}

// stockTotals считает суммарный остаток и его стоимость.
func (s *StatisticsUseCase) stockTotals(ctx context.Context) (int64, decimal.Decimal, error) {
	totalStock, err := s.statsRepo.Sum(ctx, domain.FieldStock, domain.AllProducts())
	if err != nil {
		return 0, decimal.Zero, err
	}

	stockValue, err := s.statsRepo.Sum(ctx, domain.FieldStockValue, domain.AllProducts())
	if err != nil {
		return 0, decimal.Zero, err
	}

	return totalStock.IntPart(), stockValue, nil
}

// priceExtremes возвращает среднюю (0 на пустом наборе), максимальную и минимальную цены.
func (s *StatisticsUseCase) priceExtremes(ctx context.Context) (avg, highest, lowest decimal.NullDecimal, err error) {
	if avg, err = s.statsRepo.Avg(ctx, domain.FieldPrice); err != nil {
		return avg, highest, lowest, err
	}
	if !avg.Valid {
		avg = decimal.NewNullDecimal(decimal.Zero)
	}
	if highest, err = s.statsRepo.Max(ctx, domain.FieldPrice); err != nil {
		return avg, highest, lowest, err
	}
	if lowest, err = s.statsRepo.Min(ctx, domain.FieldPrice); err != nil {
		return avg, highest, lowest, err
	}

	return avg, highest, lowest, nil
}

// criticalProducts выбирает товары с остатком <= LowStockThreshold по возрастанию остатка
// (при равенстве — в порядке выборки, т.е. по ID) и обрезает список до CriticalProductsLimit.
func (s *StatisticsUseCase) criticalProducts(ctx context.Context) ([]CriticalProduct, error) {
	products, err := s.statsRepo.FetchAll(ctx, domain.CriticalStock(), domain.OrderBy(domain.SortByStock, false))
	if err != nil {
		return nil, err
	}

	limit := min(len(products), domain.CriticalProductsLimit)
	res := make([]CriticalProduct, 0, limit)
	for i := range products[:limit] {
		res = append(res, NewCriticalProduct(&products[i]))
	}

	return res, nil
}

// medianPrice считает медиану по полной упорядоченной выборке цен.
func (s *StatisticsUseCase) medianPrice(ctx context.Context) (decimal.Decimal, error) {
	products, err := s.statsRepo.FetchAll(ctx, domain.AllProducts(), domain.OrderBy(domain.SortByPrice, false))
	if err != nil {
		return decimal.Zero, err
	}

	prices := make([]decimal.Decimal, len(products))
	for i := range products {
		prices[i] = products[i].Price
	}

	return Median(prices), nil
}

// priceDistribution считает количество товаров в каждом диапазоне цен.
func (s *StatisticsUseCase) priceDistribution(ctx context.Context) ([]PriceBucketCount, error) {
	buckets := domain.PriceBuckets()
	res := make([]PriceBucketCount, 0, len(buckets))
	for _, b := range buckets {
		count, err := s.statsRepo.Count(ctx, b.Filter())
		if err != nil {
			return nil, e.Wrap(b.Key, err)
		}
		res = append(res, PriceBucketCount{Key: b.Key, Count: count})
	}

	return res, nil
}

// Median возвращает медиану отсортированной по возрастанию последовательности,
// округлённую до 2 знаков. Для пустой последовательности — 0.
func Median(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}

	middle := n / 2
	if n%2 == 0 {
		return roundPrice(sorted[middle-1].Add(sorted[middle]).Div(decimal.NewFromInt(2)))
	}

	return roundPrice(sorted[middle])
}

// roundPrice округляет до 2 знаков, половину — от нуля.
func roundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(domain.PricePrecision)
}
