package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opsdash/gateway"
	"opsdash/models"
	"opsdash/utilities"
)

// ProjectGrid é a lista de projetos/clientes.
type ProjectGrid struct {
	store  ProjectStore
	list   *List[models.Project]
	notify *Notifier
}

func NewProjectGrid(store ProjectStore, notify *Notifier) *ProjectGrid {
	return &ProjectGrid{store: store, list: NewList(projectID), notify: notify}
}

func (g *ProjectGrid) fetch(ctx context.Context) ([]models.Project, error) {
	return g.store.ListProjects(ctx)
}

// Loaded indica se Load já rodou com sucesso alguma vez.
func (g *ProjectGrid) Loaded() bool {
	return g.list.Loaded()
}

func (g *ProjectGrid) Load(ctx context.Context) error {
	projects, err := g.fetch(ctx)
	if err != nil {
		g.notify.Notify(ActionLoad)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	g.list.Replace(projects)
	return nil
}

func (g *ProjectGrid) Projects() []models.Project {
	return g.list.Snapshot()
}

func (g *ProjectGrid) ChangeRelationStatus(ctx context.Context, id string, status models.RelationStatus) error {
	if !status.IsKnown() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, status)
	}
	err := Optimistic(ctx, g.list, id,
		func(p *models.Project) { p.RelationStatus = status },
		func(ctx context.Context) error {
			_, err := g.store.UpdateProject(ctx, id, models.UpdateProjectInput{RelationStatus: &status})
			return err
		},
		g.fetch,
	)
	if errors.Is(err, ErrUpdateFailed) {
		g.notify.Notify(ActionProjectRelation)
	}
	return err
}

// Create usa Active/Prospect quando status não vier preenchido.
func (g *ProjectGrid) Create(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.Project{}, fmt.Errorf("%w: Name", gateway.ErrRequiredField)
	}
	if in.RelationStatus != "" && !in.RelationStatus.IsKnown() {
		return models.Project{}, fmt.Errorf("%w: status %q", ErrInvalidValue, in.RelationStatus)
	}

	p, err := g.store.CreateProject(ctx, in)
	if err != nil {
		g.notify.Notify(ActionProjectCreate)
		return models.Project{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := g.Load(ctx); err != nil {
		utilities.LogWarn(err, "Projeto criado, mas a lista não foi recarregada")
		g.list.Replace(append(g.list.Snapshot(), p))
	}
	return p, nil
}

func (g *ProjectGrid) Delete(ctx context.Context, id string) error {
	if err := g.store.DeleteProject(ctx, id); err != nil {
		g.notify.Notify(ActionProjectDelete)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	g.list.Remove(id)
	return nil
}
