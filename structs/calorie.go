package structs

type CalorieParam struct {
	Weight        float64 `json:"weight" form:"weight"`
	Height        float64 `json:"height" form:"height"`
	Age           int     `json:"age" form:"age"`
	Gender        string  `json:"gender" form:"gender"`
	ActivityLevel string  `json:"activity_level" form:"activity_level"`
}

type CalorieResult struct {
	CalorieParam
	Calories int `json:"calories"`
}
