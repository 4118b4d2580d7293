package services

import (
	"sort"
	"time"

	"github.com/momonala/ios-health-dump/internal/models"
)

// The aggregation functions below are pure: they operate on the snapshot
// of records passed in, never touch storage, and never fail. Malformed
// dates or values are excluded or treated as zero.

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// WindowDays maps a period to its trailing window measured from "now".
// Zero means unbounded.
func (period Period) WindowDays() int {
	switch period {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 0
	}
}

func IsValidPeriod(raw string) bool {
	switch Period(raw) {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	default:
		return false
	}
}

type Granularity string

const (
	GroupByDay   Granularity = "day"
	GroupByWeek  Granularity = "week"
	GroupByMonth Granularity = "month"
)

func IsValidGranularity(raw string) bool {
	switch Granularity(raw) {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return true
	default:
		return false
	}
}

// BucketSummary is one day/week/month group rolled up for charting.
// Metric fields hold averages over records with a strictly positive value
// for that metric; Weight carries the latest positive reading instead.
type BucketSummary struct {
	Key            string   `json:"key"`
	Records        int      `json:"records"`
	Steps          float64  `json:"steps"`
	Kcals          float64  `json:"kcals"`
	Km             float64  `json:"km"`
	FlightsClimbed float64  `json:"flights_climbed"`
	Weight         *float64 `json:"weight"`
}

type RangeStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Total float64 `json:"total"`
}

// DashboardQuery carries the dashboard's view state (period, grouping,
// metric, drag-selected sub-range, table sort) as an explicit value so
// the aggregation functions stay free of any UI state container.
type DashboardQuery struct {
	Period    Period
	GroupBy   Granularity
	Metric    string
	DateStart string
	DateEnd   string
	SortBy    string
	SortDir   string
}

// FilterByPeriod keeps records whose date falls inside the trailing
// window ending at now, boundary day inclusive. Records with malformed
// dates are dropped.
func FilterByPeriod(records []models.HealthDump, period Period, now time.Time, location *time.Location) []models.HealthDump {
	days := period.WindowDays()
	if days <= 0 {
		return append([]models.HealthDump(nil), records...)
	}

	cutoff := DateAtLocation(now, location).AddDate(0, 0, -days)
	filtered := make([]models.HealthDump, 0, len(records))
	for _, record := range records {
		day, ok := ParseDate(record.Date, location)
		if !ok {
			continue
		}
		if !day.Before(cutoff) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FilterByDateRange narrows records to the inclusive [start, end] window.
// Empty bounds leave that side open. ISO date strings compare correctly
// as plain strings.
func FilterByDateRange(records []models.HealthDump, start string, end string) []models.HealthDump {
	filtered := make([]models.HealthDump, 0, len(records))
	for _, record := range records {
		if start != "" && record.Date < start {
			continue
		}
		if end != "" && record.Date > end {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// GroupRecords buckets records by the given granularity, ascending by
// bucket key. Day granularity passes each record through unchanged.
func GroupRecords(records []models.HealthDump, granularity Granularity, location *time.Location) []BucketSummary {
	ordered := SortRecords(records, "date", "asc")

	if granularity == GroupByDay {
		buckets := make([]BucketSummary, 0, len(ordered))
		for _, record := range ordered {
			buckets = append(buckets, BucketSummary{
				Key:            record.Date,
				Records:        1,
				Steps:          float64(record.Steps),
				Kcals:          record.Kcals,
				Km:             record.Km,
				FlightsClimbed: float64(record.FlightsClimbed),
				Weight:         record.Weight,
			})
		}
		return buckets
	}

	type accumulator struct {
		records      int
		sums         map[string]float64
		counts       map[string]int
		latestWeight *float64
	}

	keys := make([]string, 0)
	groups := make(map[string]*accumulator)
	for _, record := range ordered {
		day, ok := ParseDate(record.Date, location)
		if !ok {
			continue
		}

		var key string
		if granularity == GroupByWeek {
			key = WeekStart(day, location).Format(dateLayout)
		} else {
			key = MonthStart(day, location).Format("2006-01")
		}

		group, exists := groups[key]
		if !exists {
			group = &accumulator{
				sums:   make(map[string]float64),
				counts: make(map[string]int),
			}
			groups[key] = group
			keys = append(keys, key)
		}

		group.records++
		for _, metric := range []string{MetricSteps, MetricKcals, MetricKm, MetricFlights} {
			if value := MetricValue(record, metric); value > 0 {
				group.sums[metric] += value
				group.counts[metric]++
			}
		}
		if record.Weight != nil && *record.Weight > 0 {
			group.latestWeight = record.Weight
		}
	}

	buckets := make([]BucketSummary, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		buckets = append(buckets, BucketSummary{
			Key:            key,
			Records:        group.records,
			Steps:          positiveAverage(group.sums[MetricSteps], group.counts[MetricSteps]),
			Kcals:          positiveAverage(group.sums[MetricKcals], group.counts[MetricKcals]),
			Km:             positiveAverage(group.sums[MetricKm], group.counts[MetricKm]),
			FlightsClimbed: positiveAverage(group.sums[MetricFlights], group.counts[MetricFlights]),
			Weight:         group.latestWeight,
		})
	}
	return buckets
}

// ComputeStats summarizes a metric over records with a strictly positive
// value for it. All-zero when nothing qualifies.
func ComputeStats(records []models.HealthDump, metric string) RangeStats {
	stats := RangeStats{}
	count := 0
	for _, record := range records {
		value := MetricValue(record, metric)
		if value <= 0 {
			continue
		}
		if count == 0 || value < stats.Min {
			stats.Min = value
		}
		if value > stats.Max {
			stats.Max = value
		}
		stats.Total += value
		count++
	}
	if count > 0 {
		stats.Avg = stats.Total / float64(count)
	}
	return stats
}

// SortRecords stably sorts a copy of records by the named column. Dates
// compare as ISO strings; numeric columns compare as numbers with missing
// values treated as zero. Ties keep their original relative order.
func SortRecords(records []models.HealthDump, column string, direction string) []models.HealthDump {
	sorted := append([]models.HealthDump(nil), records...)
	descending := direction == "desc"

	sort.SliceStable(sorted, func(i, j int) bool {
		var less bool
		if column == "date" || !IsValidMetric(column) {
			less = sorted[i].Date < sorted[j].Date
		} else {
			less = MetricValue(sorted[i], column) < MetricValue(sorted[j], column)
		}
		if descending {
			return !less && !recordColumnsEqual(sorted[i], sorted[j], column)
		}
		return less
	})
	return sorted
}

const (
	MetricSteps   = "steps"
	MetricKcals   = "kcals"
	MetricKm      = "km"
	MetricFlights = "flights_climbed"
	MetricWeight  = "weight"
)

func IsValidMetric(metric string) bool {
	switch metric {
	case MetricSteps, MetricKcals, MetricKm, MetricFlights, MetricWeight:
		return true
	default:
		return false
	}
}

// MetricValue extracts the named metric from a record, with nil weight
// read as zero.
func MetricValue(record models.HealthDump, metric string) float64 {
	switch metric {
	case MetricSteps:
		return float64(record.Steps)
	case MetricKcals:
		return record.Kcals
	case MetricKm:
		return record.Km
	case MetricFlights:
		return float64(record.FlightsClimbed)
	case MetricWeight:
		if record.Weight == nil {
			return 0
		}
		return *record.Weight
	default:
		return 0
	}
}

func positiveAverage(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func recordColumnsEqual(a models.HealthDump, b models.HealthDump, column string) bool {
	if column == "date" || !IsValidMetric(column) {
		return a.Date == b.Date
	}
	return MetricValue(a, column) == MetricValue(b, column)
}
