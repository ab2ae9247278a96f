package store

import (
	"math"
	"testing"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.TotalCompleted != 0 || m.TotalSales != 0 {
		t.Fatalf("expected zero counts, got %+v", m)
	}
	if m.Revenue != 0 || m.UnitsPerSale != 0 || m.AverageTicket != 0 || m.ConversionRate != 0 {
		t.Fatalf("expected zero ratios without division errors, got %+v", m)
	}
}

func TestComputeMetricsSingleSale(t *testing.T) {
	records := []models.ServiceRecord{
		{Status: models.ServiceCompleted, IsSale: true, SaleValue: 250, ItemsCount: 2},
	}
	m := ComputeMetrics(records)
	if m.TotalCompleted != 1 || m.TotalSales != 1 {
		t.Fatalf("counts: got %+v", m)
	}
	if !almostEqual(m.Revenue, 250) {
		t.Fatalf("revenue: got %v", m.Revenue)
	}
	if !almostEqual(m.UnitsPerSale, 2) {
		t.Fatalf("units per sale: got %v", m.UnitsPerSale)
	}
	if !almostEqual(m.AverageTicket, 250) {
		t.Fatalf("average ticket: got %v", m.AverageTicket)
	}
	if !almostEqual(m.ConversionRate, 100) {
		t.Fatalf("conversion rate: got %v", m.ConversionRate)
	}
}

func TestComputeMetricsMixed(t *testing.T) {
	records := []models.ServiceRecord{
		{Status: models.ServiceCompleted, IsSale: true, SaleValue: 100, ItemsCount: 1},
		{Status: models.ServiceCompleted, IsSale: true, SaleValue: 300, ItemsCount: 3},
		{Status: models.ServiceCompleted, IsSale: false, LossReason: models.LossPrice},
		{Status: models.ServiceCompleted, IsSale: false, LossReason: models.LossPrice},
		{Status: models.ServiceCompleted, IsSale: false, LossReason: models.LossStock},
		{Status: models.ServiceCancelled, IsSale: false},
		{Status: models.ServicePending},
	}
	m := ComputeMetrics(records)
	if m.TotalCompleted != 5 {
		t.Fatalf("cancelled and pending records must not count, got %d", m.TotalCompleted)
	}
	if m.TotalSales != 2 {
		t.Fatalf("sales: got %d", m.TotalSales)
	}
	if !almostEqual(m.Revenue, 400) {
		t.Fatalf("revenue: got %v", m.Revenue)
	}
	if !almostEqual(m.UnitsPerSale, 2) {
		t.Fatalf("units per sale: got %v", m.UnitsPerSale)
	}
	if !almostEqual(m.AverageTicket, 200) {
		t.Fatalf("average ticket: got %v", m.AverageTicket)
	}
	if !almostEqual(m.ConversionRate, 40) {
		t.Fatalf("conversion rate: got %v", m.ConversionRate)
	}
	if m.LossReasons[models.LossPrice] != 2 || m.LossReasons[models.LossStock] != 1 {
		t.Fatalf("loss reasons: got %+v", m.LossReasons)
	}
}

func TestComputeMetricsAllLosses(t *testing.T) {
	records := []models.ServiceRecord{
		{Status: models.ServiceCompleted, IsSale: false, LossReason: models.LossBrowsing},
		{Status: models.ServiceCompleted, IsSale: false, LossReason: models.LossOther},
	}
	m := ComputeMetrics(records)
	if m.UnitsPerSale != 0 || m.AverageTicket != 0 {
		t.Fatalf("per-sale ratios must stay zero with no sales, got %+v", m)
	}
	if !almostEqual(m.ConversionRate, 0) {
		t.Fatalf("conversion rate: got %v", m.ConversionRate)
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		name     string
		target   float64
		current  float64
		percent  float64
		achieved bool
	}{
		{"halfway", 1000, 500, 50, false},
		{"met", 1000, 1000, 100, true},
		{"overshoot capped", 1000, 2500, 100, true},
		{"zero target", 0, 500, 0, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := progress(tt.current, tt.target)
			if !almostEqual(got.Percent, tt.percent) {
				t.Fatalf("percent: got %v, want %v", got.Percent, tt.percent)
			}
			if got.Achieved != tt.achieved {
				t.Fatalf("achieved: got %v, want %v", got.Achieved, tt.achieved)
			}
		})
	}
}

func TestCompareGoalsOverride(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	storeGoals := models.StoreGoals{Revenue: 10000, UnitsPerSale: 2, AverageTicket: 150, ConversionRate: 50}
	override := &models.SellerGoals{Revenue: f(2000)}

	metrics := Metrics{Revenue: 1500, UnitsPerSale: 2, AverageTicket: 150, ConversionRate: 25}
	report := CompareGoals(metrics, override, storeGoals)

	if !almostEqual(report.Revenue.Target, 2000) {
		t.Fatalf("revenue target must use the seller override, got %v", report.Revenue.Target)
	}
	if !almostEqual(report.Revenue.Percent, 75) {
		t.Fatalf("revenue percent: got %v", report.Revenue.Percent)
	}
	if !almostEqual(report.UnitsPerSale.Target, 2) {
		t.Fatalf("units target must fall back to the store goal, got %v", report.UnitsPerSale.Target)
	}
	if !report.UnitsPerSale.Achieved {
		t.Fatalf("units goal should be achieved")
	}
	if report.ConversionRate.Achieved {
		t.Fatalf("conversion goal should not be achieved at 25/50")
	}
}

func TestCompareGoalsNoOverride(t *testing.T) {
	storeGoals := models.StoreGoals{Revenue: 1000}
	report := CompareGoals(Metrics{Revenue: 1000}, nil, storeGoals)
	if !report.Revenue.Achieved || !almostEqual(report.Revenue.Percent, 100) {
		t.Fatalf("store-level goal comparison failed: %+v", report.Revenue)
	}
}
