// Package testkit generates deterministic datasets for tests and demos.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/KaramelBytes/glance-cli/internal/table"
)

// OrdersConfig configures the synthetic orders generator.
type OrdersConfig struct {
	Rows      int       `json:"rows"`
	StartDate time.Time `json:"start_date"`
	Days      int       `json:"days"`
	Seed      int64     `json:"seed"`
	// MissingRate is the share of regions left blank.
	MissingRate float64 `json:"missing_rate"`
}

// DefaultOrdersConfig returns 400 orders over one quarter.
func DefaultOrdersConfig() OrdersConfig {
	return OrdersConfig{
		Rows:        400,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:        90,
		Seed:        42,
		MissingRate: 0.05,
	}
}

var (
	regions  = []string{"North", "South", "East", "West"}
	products = []string{"Widget", "Gadget", "Gizmo", "Doohickey", "Sprocket", "Thingamajig"}
)

// Orders generates e-commerce order rows: order_id, order_date, region,
// product, quantity, unit_price, revenue and note.
func Orders(cfg OrdersConfig) []table.Row {
	rng := rand.New(rand.NewSource(cfg.Seed))
	days := max(cfg.Days, 1)
	rows := make([]table.Row, 0, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		qty := 1 + rng.Intn(9)
		price := math.Round((5+rng.Float64()*95)*100) / 100
		day := cfg.StartDate.AddDate(0, 0, (i*days)/max(cfg.Rows, 1))
		var region any = regions[rng.Intn(len(regions))]
		if rng.Float64() < cfg.MissingRate {
			region = nil
		}
		rows = append(rows, table.Row{
			"order_id":   fmt.Sprintf("ORD-%06d", 100000+i),
			"order_date": day.Format("2006-01-02"),
			"region":     region,
			"product":    products[rng.Intn(len(products))],
			"quantity":   float64(qty),
			"unit_price": price,
			"revenue":    math.Round(float64(qty)*price*100) / 100,
			"note":       fmt.Sprintf("Customer requested delivery window number %d, leave at front desk", rng.Intn(1000)),
		})
	}
	return rows
}

// Amounts returns 1..99 plus a single 10000.
func Amounts() []table.Row {
	rows := make([]table.Row, 0, 100)
	for i := 1; i <= 99; i++ {
		rows = append(rows, table.Row{"amount": float64(i)})
	}
	return append(rows, table.Row{"amount": float64(10000)})
}

// SequentialIDs returns n rows with an order_id of 1..n and a repeating
// category.
func SequentialIDs(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, table.Row{
			"order_id": float64(i),
			"channel":  []string{"web", "store", "phone"}[i%3],
		})
	}
	return rows
}

// Countries returns 500 rows where "US" makes up 80%.
func Countries() []table.Row {
	rows := make([]table.Row, 0, 500)
	for i := 0; i < 500; i++ {
		c := "US"
		switch {
		case i%10 == 8:
			c = "CA"
		case i%10 == 9:
			c = "MX"
		}
		rows = append(rows, table.Row{"country": c})
	}
	return rows
}

// Undated returns rows with numbers and categories but no date-like column.
func Undated(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, table.Row{
			"segment": []string{"A", "B", "C"}[i%3],
			"score":   float64((i*37)%101) + 0.5,
		})
	}
	return rows
}

// Extremes returns n rows whose "volume" total overflows a float64 and whose
// "delta" alternates sign so max - min overflows too.
func Extremes(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		sign := ""
		if i%2 == 1 {
			sign = "-"
		}
		rows = append(rows, table.Row{
			"volume": fmt.Sprintf("%de306", 50+(i*7)%30),
			"delta":  fmt.Sprintf("%s%de306", sign, 100+(i*7)%30),
		})
	}
	return rows
}

// PartlyNumeric returns n rows of "price" where every tenth cell is "N/A".
func PartlyNumeric(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		var v any = fmt.Sprintf("%d.25", 5+(i*13)%40)
		if i%10 == 9 {
			v = "N/A"
		}
		rows = append(rows, table.Row{"price": v})
	}
	return rows
}
