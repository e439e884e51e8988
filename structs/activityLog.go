package structs

type ActivityLogJsonModel struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id,omitempty"`
	Date    string `json:"date,omitempty"`
	Eaten   int    `json:"eaten"`
	Result  bool   `json:"result"`
	Message string `json:"message"`
}
