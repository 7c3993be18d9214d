package views

import (
	"context"

	"opsdash/models"
)

// As interfaces abaixo são satisfeitas por *gateway.Gateway.

type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasks(ctx context.Context, ids []string) error
}

type MeetingStore interface {
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
	CreateMeeting(ctx context.Context, in models.MeetingInput) (models.Meeting, error)
	UpdateMeeting(ctx context.Context, id string, in models.MeetingInput) (models.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
}

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, id string, in models.UpdateProjectInput) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

func taskID(t models.Task) string       { return t.ID }
func meetingID(m models.Meeting) string { return m.ID }
func projectID(p models.Project) string { return p.ID }
