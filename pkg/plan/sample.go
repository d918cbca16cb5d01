package plan

// SampleTasks returns the eight-task demo set used by `workspace init
// --sample` and the documentation.
func SampleTasks() []Task {
	return []Task{
		{ID: "T1", Name: "UI Design", Cost: 3000, Hours: 6, Value: 8, Categories: Amounts{"D": 1}},
		{ID: "T2", Name: "Landing Page", Cost: 4000, Hours: 8, Value: 10, Categories: Amounts{"FE": 2}},
		{ID: "T3", Name: "Auth Backend", Cost: 5500, Hours: 10, Value: 14, Categories: Amounts{"BE": 2}},
		{ID: "T4", Name: "DB Schema", Cost: 4500, Hours: 7, Value: 11, Categories: Amounts{"BE": 1}},
		{ID: "T5", Name: "CI/CD Setup", Cost: 3500, Hours: 5, Value: 9, Categories: Amounts{"DevOps": 1}},
		{ID: "T6", Name: "Cloud Deploy", Cost: 6000, Hours: 9, Value: 12, Categories: Amounts{"BE": 1, "DevOps": 1}},
		{ID: "T7", Name: "Test Automation", Cost: 3000, Hours: 6, Value: 10, Categories: Amounts{"QA": 2}},
		{ID: "T8", Name: "Analytics & SEO", Cost: 2500, Hours: 4, Value: 6, Categories: Amounts{"FE": 1}},
	}
}

// SampleConstraints returns the constraints that accompany [SampleTasks].
func SampleConstraints() Constraints {
	return Constraints{
		MaxCost:  19000,
		MaxHours: 40,
		MinCategoryTotals: Amounts{
			"D": 1, "FE": 2, "BE": 2, "DevOps": 1, "QA": 1,
		},
	}
}
