package structs

type CalendarDay struct {
	Date       string  `json:"date"`
	Weekday    string  `json:"weekday"`
	Completion float64 `json:"completion"`
	Bucket     string  `json:"bucket"`
	HasRecord  bool    `json:"has_record"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type DayDetail struct {
	Date       string  `json:"date"`
	Meals      []Meal  `json:"meals"`
	Completion float64 `json:"completion"`
	Bucket     string  `json:"bucket"`
}
