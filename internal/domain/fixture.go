package domain

func taskRef(v int64) *int64 { return &v }

func minutes(v int) *int { return &v }

// DefaultTasks returns the built-in task fixture used to seed an empty store.
// A fresh copy is returned on every call.
func DefaultTasks() []*Task {
	return []*Task{
		// Projects
		{ID: 1, Name: "Frontend Development", Status: StatusInProgress, Level: LevelProject, ProjectID: 1},
		{ID: 2, Name: "Backend Development", Status: StatusTodo, Level: LevelProject, ProjectID: 2},
		{ID: 3, Name: "Mobile App", Status: StatusBacklog, Level: LevelProject, ProjectID: 3},

		// Tasks
		{ID: 101, Name: "UI Components", Status: StatusInProgress, Level: LevelTask, ParentID: taskRef(1), ProjectID: 1, EstimatedTime: minutes(480), TotalExpectedTime: minutes(960)},
		{ID: 102, Name: "Authentication", Status: StatusComplete, Level: LevelTask, ParentID: taskRef(1), ProjectID: 1, EstimatedTime: minutes(240), TotalExpectedTime: minutes(240)},
		{ID: 103, Name: "Dashboard", Status: StatusTodo, Level: LevelTask, ParentID: taskRef(1), ProjectID: 1, EstimatedTime: minutes(360), TotalExpectedTime: minutes(720)},
		{ID: 201, Name: "API Development", Status: StatusTodo, Level: LevelTask, ParentID: taskRef(2), ProjectID: 2, EstimatedTime: minutes(480), TotalExpectedTime: minutes(720)},
		{ID: 202, Name: "Database Setup", Status: StatusReview, Level: LevelTask, ParentID: taskRef(2), ProjectID: 2, EstimatedTime: minutes(180), TotalExpectedTime: minutes(240)},
		{ID: 301, Name: "iOS App", Status: StatusBacklog, Level: LevelTask, ParentID: taskRef(3), ProjectID: 3, EstimatedTime: minutes(1440), TotalExpectedTime: minutes(2880)},
		{ID: 302, Name: "Android App", Status: StatusClarification, Level: LevelTask, ParentID: taskRef(3), ProjectID: 3, EstimatedTime: minutes(1440), TotalExpectedTime: minutes(2880)},

		// Subtasks
		{ID: 1011, Name: "Button Component", Status: StatusComplete, Level: LevelSubtask, ParentID: taskRef(101), ProjectID: 1, EstimatedTime: minutes(120), TotalExpectedTime: minutes(120)},
		{ID: 1012, Name: "Form Component", Status: StatusInProgress, Level: LevelSubtask, ParentID: taskRef(101), ProjectID: 1, EstimatedTime: minutes(180), TotalExpectedTime: minutes(360)},
		{ID: 1013, Name: "Card Component", Status: StatusTodo, Level: LevelSubtask, ParentID: taskRef(101), ProjectID: 1, EstimatedTime: minutes(120), TotalExpectedTime: minutes(240)},
		{ID: 2011, Name: "User API", Status: StatusTodo, Level: LevelSubtask, ParentID: taskRef(201), ProjectID: 2, EstimatedTime: minutes(240), TotalExpectedTime: minutes(360)},
		{ID: 2012, Name: "Product API", Status: StatusTodo, Level: LevelSubtask, ParentID: taskRef(201), ProjectID: 2, EstimatedTime: minutes(240), TotalExpectedTime: minutes(360)},

		// Actions
		{ID: 10121, Name: "Create Form Layout", Status: StatusComplete, Level: LevelAction, ParentID: taskRef(1012), ProjectID: 1, EstimatedTime: minutes(60), TotalExpectedTime: minutes(120)},
		{ID: 10122, Name: "Add Form Validation", Status: StatusInProgress, Level: LevelAction, ParentID: taskRef(1012), ProjectID: 1, EstimatedTime: minutes(120), TotalExpectedTime: minutes(240)},
		{ID: 20111, Name: "User Authentication", Status: StatusTodo, Level: LevelAction, ParentID: taskRef(2011), ProjectID: 2, EstimatedTime: minutes(120), TotalExpectedTime: minutes(180)},
		{ID: 20112, Name: "User Profile", Status: StatusTodo, Level: LevelAction, ParentID: taskRef(2011), ProjectID: 2, EstimatedTime: minutes(120), TotalExpectedTime: minutes(180)},

		// Subactions
		{ID: 101221, Name: "Client-side Validation", Status: StatusInProgress, Level: LevelSubaction, ParentID: taskRef(10122), ProjectID: 1, EstimatedTime: minutes(60), TotalExpectedTime: minutes(120)},
		{ID: 101222, Name: "Server-side Validation", Status: StatusTodo, Level: LevelSubaction, ParentID: taskRef(10122), ProjectID: 1, EstimatedTime: minutes(60), TotalExpectedTime: minutes(120)},
	}
}
