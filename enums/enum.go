package enums

const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Dinner    = "dinner"

	Eaten    = "eaten"
	NotEaten = "not-eaten"

	BucketFull    = "full"
	BucketPartial = "partial"
	BucketNone    = "none"

	Male   = "male"
	Female = "female"

	Sedentary  = "sedentary"
	Light      = "light"
	Moderate   = "moderate"
	Active     = "active"
	VeryActive = "veryActive"

	SignedIn  = "signed_in"
	SignedOut = "signed_out"

	DailyMealsQueue   = "daily-meals"
	DayUpdatedLogName = "meals.day.updated"
	WorkerInitLogName = "worker.job.init"
	WorkerStopLogName = "worker.job.shutdown"

	DateLayout = "2006-01-02"
)
