package store

import "github.com/Matheusaraujo007/Lista-da-vez/internal/models"

// Metrics is derived entirely from completed service records. Pending
// and cancelled records never enter KPI math.
type Metrics struct {
	TotalCompleted int            `json:"total_completed"`
	TotalSales     int            `json:"total_sales"`
	Revenue        float64        `json:"revenue"`
	UnitsPerSale   float64        `json:"units_per_sale"`
	AverageTicket  float64        `json:"average_ticket"`
	ConversionRate float64        `json:"conversion_rate"`
	LossReasons    map[string]int `json:"loss_reasons,omitempty"`
}

func ComputeMetrics(records []models.ServiceRecord) Metrics {
	var metrics Metrics
	var items int
	for _, record := range records {
		if record.Status != models.ServiceCompleted {
			continue
		}
		metrics.TotalCompleted++
		if record.IsSale {
			metrics.TotalSales++
			metrics.Revenue += record.SaleValue
			items += record.ItemsCount
			continue
		}
		if record.LossReason != "" {
			if metrics.LossReasons == nil {
				metrics.LossReasons = make(map[string]int)
			}
			metrics.LossReasons[record.LossReason]++
		}
	}
	if metrics.TotalSales > 0 {
		metrics.UnitsPerSale = float64(items) / float64(metrics.TotalSales)
		metrics.AverageTicket = metrics.Revenue / float64(metrics.TotalSales)
	}
	if metrics.TotalCompleted > 0 {
		metrics.ConversionRate = float64(metrics.TotalSales) / float64(metrics.TotalCompleted) * 100
	}
	return metrics
}

type GoalProgress struct {
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Percent  float64 `json:"percent"`
	Achieved bool    `json:"achieved"`
}

type GoalReport struct {
	Revenue        GoalProgress `json:"revenue"`
	UnitsPerSale   GoalProgress `json:"units_per_sale"`
	AverageTicket  GoalProgress `json:"average_ticket"`
	ConversionRate GoalProgress `json:"conversion_rate"`
}

// CompareGoals resolves each target from the seller override when set,
// else the store goal, and reports progress-bar friendly percentages.
func CompareGoals(metrics Metrics, override *models.SellerGoals, storeGoals models.StoreGoals) GoalReport {
	resolve := func(value *float64, fallback float64) float64 {
		if value != nil {
			return *value
		}
		return fallback
	}
	report := GoalReport{
		Revenue:        progress(metrics.Revenue, storeGoals.Revenue),
		UnitsPerSale:   progress(metrics.UnitsPerSale, storeGoals.UnitsPerSale),
		AverageTicket:  progress(metrics.AverageTicket, storeGoals.AverageTicket),
		ConversionRate: progress(metrics.ConversionRate, storeGoals.ConversionRate),
	}
	if override != nil {
		report.Revenue = progress(metrics.Revenue, resolve(override.Revenue, storeGoals.Revenue))
		report.UnitsPerSale = progress(metrics.UnitsPerSale, resolve(override.UnitsPerSale, storeGoals.UnitsPerSale))
		report.AverageTicket = progress(metrics.AverageTicket, resolve(override.AverageTicket, storeGoals.AverageTicket))
		report.ConversionRate = progress(metrics.ConversionRate, resolve(override.ConversionRate, storeGoals.ConversionRate))
	}
	return report
}

func progress(current, target float64) GoalProgress {
	p := GoalProgress{Target: target, Current: current}
	if target > 0 {
		percent := current / target * 100
		if percent > 100 {
			percent = 100
		}
		p.Percent = percent
		p.Achieved = current >= target
	}
	return p
}
