package tick

// Summary is the outcome of one reminder run.
type Summary struct {
	PatientsScanned  int `json:"patients_scanned"`
	PatientsNotified int `json:"patients_notified"`
	DueItems         int `json:"due_items"`
	CoursesCompleted int `json:"courses_completed"`
	DeliveryFailures int `json:"delivery_failures"`
}
