package gateway

import (
	"context"

	"opsdash/airtable"
	"opsdash/models"
)

// ListProjects devolve os projetos em ordem alfabética.
func (g *Gateway) ListProjects(ctx context.Context) ([]models.Project, error) {
	recs, err := g.List(ctx, KindProject, airtable.SortField{Field: "Name", Direction: "asc"})
	if err != nil {
		return nil, err
	}
	projects := make([]models.Project, 0, len(recs))
	for _, r := range recs {
		projects = append(projects, projectFromRecord(r))
	}
	return projects, nil
}

func projectFromRecord(r airtable.Record) models.Project {
	p := models.Project{
		ID:             r.ID,
		Name:           Text(r.Fields["Name"]),
		Status:         Text(r.Fields["Status"]),
		RelationStatus: models.RelationStatus(Text(r.Fields["RelationStatus"])),
		Notes:          Text(r.Fields["Notes"]),
		TaskIDs:        Links(r.Fields["Tasks"]),
	}
	if p.Status == "" {
		p.Status = models.DefaultProjectStatus
	}
	if p.RelationStatus == "" {
		p.RelationStatus = models.RelationProspect
	}
	return p
}

func (g *Gateway) CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	if in.Status == "" {
		in.Status = models.DefaultProjectStatus
	}
	if in.RelationStatus == "" {
		in.RelationStatus = models.RelationProspect
	}
	fields := airtable.Fields{
		"Name":           in.Name,
		"Status":         in.Status,
		"RelationStatus": string(in.RelationStatus),
		"Notes":          in.Notes,
	}
	rec, err := g.Create(ctx, KindProject, fields)
	if err != nil {
		return models.Project{}, err
	}
	return projectFromRecord(echo(rec, fields)), nil
}

// UpdateProject envia somente os campos não nulos do input.
func (g *Gateway) UpdateProject(ctx context.Context, id string, in models.UpdateProjectInput) (models.Project, error) {
	fields := airtable.Fields{}
	if in.Name != nil {
		fields["Name"] = *in.Name
	}
	if in.Status != nil {
		fields["Status"] = *in.Status
	}
	if in.RelationStatus != nil {
		fields["RelationStatus"] = string(*in.RelationStatus)
	}
	if in.Notes != nil {
		fields["Notes"] = *in.Notes
	}
	rec, err := g.Update(ctx, KindProject, id, fields)
	if err != nil {
		return models.Project{}, err
	}
	return projectFromRecord(rec), nil
}

func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	return g.Delete(ctx, KindProject, id)
}
