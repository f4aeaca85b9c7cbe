package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

// StatisticsHandler отдаёт отчёты по каталогу. Параметров запроса нет.
type StatisticsHandler struct {
	statsUsecase usecase.StatisticsUC
	logger       logger.Logger
}

func NewStatisticsHandler(statsUsecase usecase.StatisticsUC, logger logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{statsUsecase: statsUsecase, logger: logger}
}

// overview
//
//	@Summary	Общая сводка
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{object}	dataResponse{data=overviewResponse}
//	@Failure	500	{object}	ErrorResponse
//	@Router		/statistics/overview [get]
func (s *StatisticsHandler) overview(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUsecase.Overview(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toOverviewResponse(stats)})
}

// products
//
//	@Summary	Статистика по товарам
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{object}	dataResponse{data=productStatsResponse}
//	@Failure	500	{object}	ErrorResponse
//	@Router		/statistics/products [get]
func (s *StatisticsHandler) products(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUsecase.ProductStats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toProductStatsResponse(stats)})
}

// stock
//
//	@Summary	Статистика по остаткам
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{object}	dataResponse{data=stockStatsResponse}
//	@Failure	500	{object}	ErrorResponse
//	@Router		/statistics/stock [get]
func (s *StatisticsHandler) stock(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUsecase.StockStats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toStockStatsResponse(stats)})
}

// pricing
//
//	@Summary	Статистика по ценам
//	@Tags		statistics
//	@Produce	json
//	@Success	200	{object}	dataResponse{data=pricingStatsResponse}
//	@Failure	500	{object}	ErrorResponse
//	@Router		/statistics/pricing [get]
func (s *StatisticsHandler) pricing(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUsecase.PricingStats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toPricingStatsResponse(stats)})
}

func (s *StatisticsHandler) fail(w http.ResponseWriter, err error) {
	logFailure(s.logger, err)
	WriteError(w, err)
}
