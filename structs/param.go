package structs

type RegisterParam struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" form:"display_name"`
}

type LoginParam struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type NoteParam struct {
	Note string `json:"note" form:"note"`
}

type CalendarParam struct {
	Year  int `json:"year" form:"year"`
	Month int `json:"month" form:"month"`
}

// DayUpdatedMessage is the body published to the daily-meals queue.
type DayUpdatedMessage struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Eaten     int    `json:"eaten"`
	UpdatedAt string `json:"updated_at"`
	QueueType string `json:"queue_type"`
}

type ReconcileResult struct {
	Scanned  int `json:"scanned"`
	Inserted int `json:"inserted"`
}

type MismatchQueueResponse struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Queue     string `json:"queue"`
	QueueType string `json:"queue_type"`
}
