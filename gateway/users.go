package gateway

import (
	"context"
	"fmt"
	"strings"

	"opsdash/airtable"
	"opsdash/models"
)

// FindUserByName devolve nil, nil quando não existe usuário com esse nome.
func (g *Gateway) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	recs, err := g.list(ctx, KindUser, airtable.ListOptions{
		FilterByFormula: fmt.Sprintf("{Name} = '%s'", escapeFormula(name)),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	u := userFromRecord(recs[0])
	return &u, nil
}

func (g *Gateway) CreateUser(ctx context.Context, name, role string) (models.User, error) {
	fields := airtable.Fields{"Name": name, "Role": role}
	rec, err := g.Create(ctx, KindUser, fields)
	if err != nil {
		return models.User{}, err
	}
	return userFromRecord(echo(rec, fields)), nil
}

func (g *Gateway) UpdateUserRole(ctx context.Context, id, role string) error {
	_, err := g.Update(ctx, KindUser, id, airtable.Fields{"Role": role})
	return err
}

func userFromRecord(r airtable.Record) models.User {
	return models.User{
		ID:   r.ID,
		Name: Text(r.Fields["Name"]),
		Role: Text(r.Fields["Role"]),
	}
}

func escapeFormula(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
