package dataset

// Sample returns the two-week demo history used by the terminal demo
func Sample() []HistoricalRecord {
	days := []int{1, 2, 3, 4, 5, 6, 7, 1, 2, 3, 4, 5, 6, 7}
	temps := []float64{15, 18, 20, 22, 25, 30, 28, 16, 19, 21, 23, 26, 31, 29}
	holidays := []bool{false, false, false, false, false, true, true, false, false, false, false, false, true, true}
	orders := []int{50, 55, 60, 65, 80, 120, 110, 52, 58, 63, 70, 85, 130, 115}

	records := make([]HistoricalRecord, len(days))
	for i := range days {
		records[i] = HistoricalRecord{
			DayOfWeek:   days[i],
			Temperature: temps[i],
			IsHoliday:   holidays[i],
			OrderCount:  orders[i],
		}
	}
	return records
}
