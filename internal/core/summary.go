package core

import "time"

// CategoryTotal is one row of the monthly expense breakdown.
type CategoryTotal struct {
	Category   Category `json:"category"`
	Total      Money    `json:"total"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// MonthlyStats summarizes one calendar month as of a given day.
type MonthlyStats struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"` // 1-12
	MonthName string `json:"monthName"`
	// AsOfDay is the divisor used for daily averages.
	AsOfDay int `json:"asOfDay"`

	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	Balance       Money `json:"balance"`

	DailyAverageIncome  Money `json:"dailyAverageIncome"`
	DailyAverageExpense Money `json:"dailyAverageExpense"`
	NetDaily            Money `json:"netDaily"`

	ByCategory []CategoryTotal `json:"byCategory"`

	TransactionCount      int `json:"transactionCount"`
	MonthTransactionCount int `json:"monthTransactionCount"`
	CategoriesUsed        int `json:"categoriesUsed"`

	// EmptyMessage is set when the month has no expenses to break down.
	EmptyMessage string `json:"emptyMessage,omitempty"`
}

// Period returns the stats month as a time.Month.
func (s MonthlyStats) Period() (int, time.Month) {
	return s.Year, time.Month(s.Month)
}
