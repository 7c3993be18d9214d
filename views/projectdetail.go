package views

import (
	"context"
	"errors"
	"fmt"

	"opsdash/models"
)

// ProjectView é o projeto aberto com as tarefas ligadas a ele.
type ProjectView struct {
	Project models.Project `json:"project"`
	Tasks   []models.Task  `json:"tasks"`
}

// ProjectDetail é a tela de um único projeto. Crie uma por projeto aberto;
// Load não deve correr junto com as outras operações da mesma instância.
type ProjectDetail struct {
	projects ProjectStore
	tasks    TaskStore
	notify   *Notifier

	id      string
	project *List[models.Project]
	linked  *List[models.Task]
}

func NewProjectDetail(projects ProjectStore, tasks TaskStore, notify *Notifier) *ProjectDetail {
	return &ProjectDetail{
		projects: projects,
		tasks:    tasks,
		notify:   notify,
		project:  NewList(projectID),
		linked:   NewList(taskID),
	}
}

// fetchProject busca todos os projetos e devolve só o id pedido, como lista
// de um elemento (ou vazia).
func (d *ProjectDetail) fetchProject(ctx context.Context) ([]models.Project, error) {
	all, err := d.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ID == d.id {
			return []models.Project{p}, nil
		}
	}
	return []models.Project{}, nil
}

// Load abre o projeto id. Tarefas ligadas são as que apontam para o id ou
// que trazem o nome do projeto no campo Project.
func (d *ProjectDetail) Load(ctx context.Context, id string) (ProjectView, error) {
	d.id = id
	found, err := d.fetchProject(ctx)
	if err != nil {
		d.notify.Notify(ActionLoad)
		return ProjectView{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if len(found) == 0 {
		return ProjectView{}, fmt.Errorf("%w: projeto %s", ErrNotFound, id)
	}
	d.project.Replace(found)

	all, err := d.tasks.ListTasks(ctx)
	if err != nil {
		d.notify.Notify(ActionLoad)
		return ProjectView{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	name := found[0].Name
	linked := []models.Task{}
	for _, t := range all {
		if t.ProjectID == id || (t.Project != "" && t.Project == name) {
			linked = append(linked, t)
		}
	}
	d.linked.Replace(linked)
	return d.View(), nil
}

func (d *ProjectDetail) View() ProjectView {
	v := ProjectView{Tasks: d.linked.Snapshot()}
	if p := d.project.Snapshot(); len(p) > 0 {
		v.Project = p[0]
	}
	return v
}

func (d *ProjectDetail) current() (models.Project, error) {
	p, ok := d.project.Find(d.id)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %s", ErrNotInView, d.id)
	}
	return p, nil
}

// SaveNotes grava as notas; em falha a tela mantém o texto digitado.
func (d *ProjectDetail) SaveNotes(ctx context.Context, notes string) error {
	if _, err := d.current(); err != nil {
		return err
	}
	if _, err := d.projects.UpdateProject(ctx, d.id, models.UpdateProjectInput{Notes: &notes}); err != nil {
		d.notify.Notify(ActionProjectNotes)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	d.project.apply(d.id, func(p *models.Project) { p.Notes = notes })
	return nil
}

func (d *ProjectDetail) ChangeRelationStatus(ctx context.Context, status models.RelationStatus) error {
	if !status.IsKnown() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}
	err := Optimistic(ctx, d.project, d.id,
		func(p *models.Project) { p.RelationStatus = status },
		func(ctx context.Context) error {
			_, err := d.projects.UpdateProject(ctx, d.id, models.UpdateProjectInput{RelationStatus: &status})
			return err
		},
		d.fetchProject,
	)
	if errors.Is(err, ErrUpdateFailed) {
		d.notify.Notify(ActionProjectRelation)
	}
	return err
}

// CreateTask cria uma tarefa já ligada a este projeto e recarrega a tela.
func (d *ProjectDetail) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if _, err := d.current(); err != nil {
		return models.Task{}, err
	}
	in.ProjectID = d.id
	if err := validateTask(&in); err != nil {
		return models.Task{}, err
	}
	task, err := d.tasks.CreateTask(ctx, in)
	if err != nil {
		d.notify.Notify(ActionTaskCreate)
		return models.Task{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if _, err := d.Load(ctx, d.id); err != nil {
		d.linked.Replace(append(d.linked.Snapshot(), task))
	}
	return task, nil
}

func (d *ProjectDetail) Delete(ctx context.Context) error {
	if err := d.projects.DeleteProject(ctx, d.id); err != nil {
		d.notify.Notify(ActionProjectDelete)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	d.project.Replace([]models.Project{})
	d.linked.Replace([]models.Task{})
	return nil
}
