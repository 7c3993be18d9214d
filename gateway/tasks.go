package gateway

import (
	"context"
	"fmt"

	"opsdash/airtable"
	"opsdash/models"
)

// ListTasks devolve todas as tarefas; status vazio vira To Do.
func (g *Gateway) ListTasks(ctx context.Context) ([]models.Task, error) {
	recs, err := g.List(ctx, KindTask)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(recs))
	for _, r := range recs {
		tasks = append(tasks, taskFromRecord(r))
	}
	return tasks, nil
}

func taskFromRecord(r airtable.Record) models.Task {
	t := models.Task{
		ID:        r.ID,
		Title:     Text(r.Fields["Title"]),
		Status:    models.ParseTaskStatus(Text(r.Fields["Status"])),
		Assignee:  Text(r.Fields["Assignee"]),
		DueDate:   Text(r.Fields["DueDate"]),
		Creator:   Text(r.Fields["Creator"]),
		ProjectID: FirstLink(r.Fields["Project"]),
	}
	if links, ok := r.Fields["Project"].([]any); ok && len(links) > 0 {
		t.Project = Text(links[0])
	}
	return t
}

func (g *Gateway) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	status := in.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !status.IsValid() {
		return models.Task{}, fmt.Errorf("status inválido: %q", status)
	}
	fields := airtable.Fields{
		"Title":    in.Title,
		"Status":   string(status),
		"Assignee": in.Assignee,
		"Creator":  in.Creator,
	}
	if in.DueDate != "" {
		fields["DueDate"] = in.DueDate
	}
	if in.ProjectID != "" {
		fields["Project"] = []string{in.ProjectID}
	}

	rec, err := g.Create(ctx, KindTask, fields)
	if err != nil {
		return models.Task{}, err
	}
	return taskFromRecord(echo(rec, fields)), nil
}

func (g *Gateway) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	fields := airtable.Fields{}
	if in.Title != nil {
		fields["Title"] = *in.Title
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return models.Task{}, fmt.Errorf("status inválido: %q", *in.Status)
		}
		fields["Status"] = string(*in.Status)
	}
	if in.Assignee != nil {
		fields["Assignee"] = *in.Assignee
	}
	if in.DueDate != nil {
		if *in.DueDate == "" {
			fields["DueDate"] = nil
		} else {
			fields["DueDate"] = *in.DueDate
		}
	}
	if in.ProjectID != nil {
		if *in.ProjectID == "" {
			fields["Project"] = []string{}
		} else {
			fields["Project"] = []string{*in.ProjectID}
		}
	}

	rec, err := g.Update(ctx, KindTask, id, fields)
	if err != nil {
		return models.Task{}, err
	}
	return taskFromRecord(rec), nil
}

// UpdateTaskStatus muda só o campo Status.
func (g *Gateway) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	_, err := g.UpdateTask(ctx, id, models.UpdateTaskInput{Status: &status})
	return err
}

func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	return g.Delete(ctx, KindTask, id)
}

// DeleteTasks apaga em lotes de até BatchSize por chamada.
func (g *Gateway) DeleteTasks(ctx context.Context, ids []string) error {
	return g.DeleteMany(ctx, KindTask, ids)
}

// echo completa o registro devolvido com os campos enviados que o backend omitiu.
func echo(rec airtable.Record, sent airtable.Fields) airtable.Record {
	out := airtable.Record{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: airtable.Fields{}}
	for k, v := range sent {
		out.Fields[k] = toAny(v)
	}
	for k, v := range rec.Fields {
		out.Fields[k] = v
	}
	return out
}

// toAny converte []string para []any, o formato que o JSON decodificado usa.
func toAny(v any) any {
	if ss, ok := v.([]string); ok {
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	}
	return v
}
