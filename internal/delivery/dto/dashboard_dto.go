package dto

import "github.com/shopspring/decimal"

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DashboardResponse struct {
	TotalAppointments int             `json:"total_appointments"`
	ThisMonth         int             `json:"this_month"`
	Today             int             `json:"today"`
	UniquePatients    int             `json:"unique_patients"`
	ByStatus          map[string]int  `json:"by_status"`
	LastSixMonths     []MonthlyCount  `json:"last_six_months"`
	Revenue           decimal.Decimal `json:"revenue"`
	Unpaid            int             `json:"unpaid"`
}
