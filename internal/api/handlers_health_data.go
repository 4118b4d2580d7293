package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/momonala/ios-health-dump/internal/services"
)

// GetHealthData returns the stored history, newest first, optionally
// narrowed to an inclusive date range and re-sorted by any column.
//
// Query params: date ("today" or ISO, shortcut for date_start=date_end),
// date_start, date_end, sort, direction.
func (handler *Handler) GetHealthData(c *fiber.Ctx) error {
	query, ok := handler.parseDashboardQuery(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	records, err := handler.dumps.FetchAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch health data")
	}

	records = services.FilterByDateRange(records, query.DateStart, query.DateEnd)
	if query.SortBy != "" {
		records = services.SortRecords(records, query.SortBy, query.SortDir)
	}

	return c.JSON(fiber.Map{"data": records})
}

// GetGroupedHealthData rolls the period-filtered history into day, week,
// or month buckets for the dashboard charts.
func (handler *Handler) GetGroupedHealthData(c *fiber.Ctx) error {
	query, ok := handler.parseDashboardQuery(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if !services.IsValidGranularity(string(query.GroupBy)) {
		return apiError(c, fiber.StatusBadRequest, "invalid group_by value")
	}

	records, err := handler.dumps.FetchAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch health data")
	}

	records = services.FilterByPeriod(records, query.Period, handler.now(), handler.location)
	records = services.FilterByDateRange(records, query.DateStart, query.DateEnd)
	buckets := services.GroupRecords(records, query.GroupBy, handler.location)

	return c.JSON(fiber.Map{
		"data":     buckets,
		"period":   query.Period,
		"group_by": query.GroupBy,
	})
}

// GetHealthDataStats computes min/max/avg/total for one metric over the
// period-filtered history, optionally narrowed further by a brushed
// date range.
func (handler *Handler) GetHealthDataStats(c *fiber.Ctx) error {
	query, ok := handler.parseDashboardQuery(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if !services.IsValidMetric(query.Metric) {
		return apiError(c, fiber.StatusBadRequest, "unknown metric")
	}

	records, err := handler.dumps.FetchAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch health data")
	}

	records = services.FilterByPeriod(records, query.Period, handler.now(), handler.location)
	records = services.FilterByDateRange(records, query.DateStart, query.DateEnd)
	stats := services.ComputeStats(records, query.Metric)

	return c.JSON(fiber.Map{
		"metric": query.Metric,
		"period": query.Period,
		"stats":  stats,
	})
}

// parseDashboardQuery collects the dashboard view state from query
// parameters into the explicit struct the aggregation functions take.
func (handler *Handler) parseDashboardQuery(c *fiber.Ctx) (services.DashboardQuery, bool) {
	query := services.DashboardQuery{
		Period:  services.PeriodAll,
		GroupBy: services.GroupByDay,
		Metric:  c.Query("metric"),
		SortBy:  c.Query("sort"),
		SortDir: c.Query("direction", "asc"),
	}

	if raw := c.Query("period"); raw != "" {
		if !services.IsValidPeriod(raw) {
			return services.DashboardQuery{}, false
		}
		query.Period = services.Period(raw)
	}
	if raw := c.Query("group_by"); raw != "" {
		query.GroupBy = services.Granularity(raw)
	}

	if raw := c.Query("date"); raw != "" {
		day, ok := handler.parseDateParam(raw)
		if !ok {
			return services.DashboardQuery{}, false
		}
		query.DateStart = day
		query.DateEnd = day
		return query, true
	}

	start, ok := handler.parseDateParam(c.Query("date_start"))
	if !ok {
		return services.DashboardQuery{}, false
	}
	end, ok := handler.parseDateParam(c.Query("date_end"))
	if !ok {
		return services.DashboardQuery{}, false
	}
	query.DateStart = start
	query.DateEnd = end
	return query, true
}
