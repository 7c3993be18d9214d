package models

// RelationStatus é o estágio da relação com o cliente. O backend aceita
// texto livre (typecast), então valores fora da lista são preservados.
type RelationStatus string

const (
	RelationProspect     RelationStatus = "Prospect"
	RelationNegotiation  RelationStatus = "Negotiation"
	RelationActiveClient RelationStatus = "Active Client"
	RelationOnHold       RelationStatus = "On Hold"
	RelationCompleted    RelationStatus = "Completed"
)

var RelationStatuses = []RelationStatus{
	RelationProspect,
	RelationNegotiation,
	RelationActiveClient,
	RelationOnHold,
	RelationCompleted,
}

func (s RelationStatus) IsKnown() bool {
	for _, r := range RelationStatuses {
		if r == s {
			return true
		}
	}
	return false
}

const DefaultProjectStatus = "Active"

type Project struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	RelationStatus RelationStatus `json:"relationStatus"`
	Notes          string         `json:"notes"`
	TaskIDs        []string       `json:"taskIds"`
}

type CreateProjectInput struct {
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	RelationStatus RelationStatus `json:"relationStatus"`
	Notes          string         `json:"notes"`
}

type UpdateProjectInput struct {
	Name           *string         `json:"name"`
	Status         *string         `json:"status"`
	RelationStatus *RelationStatus `json:"relationStatus"`
	Notes          *string         `json:"notes"`
}
