package app

import "github.com/louisbranch/tasktrack/internal/tracker/storage"

// ReportPriority is the priority filter shown first by Report.
const ReportPriority int64 = 1

// DemoProject is the project inserted by Seed.
func DemoProject() storage.Project {
	return storage.Project{
		Name:      "Cool App with SQLite & Python",
		BeginDate: "2015-01-01",
		EndDate:   "2015-01-30",
	}
}

// DemoTasks are the two tasks inserted by Seed under projectID.
func DemoTasks(projectID int64) []storage.Task {
	return []storage.Task{
		{
			Name:      "Analyze the requirements of the app",
			Priority:  storage.PriorityOf(2),
			StatusID:  1,
			ProjectID: projectID,
			BeginDate: "2015-01-01",
			EndDate:   "2015-01-02",
		},
		{
			Name:      "Confirm with user about the top requirements",
			Priority:  storage.PriorityOf(3),
			StatusID:  1,
			ProjectID: projectID,
			BeginDate: "2015-01-03",
			EndDate:   "2015-01-05",
		},
	}
}
