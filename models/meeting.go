package models

import "strings"

type Meeting struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Notes       string   `json:"notes"`
	Attendees   []string `json:"attendees"`
	Creator     string   `json:"creator,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// SplitAttendees aceita "Ana, Beto" ou "Ana / Beto"; descarta entradas vazias.
func SplitAttendees(s string) []string {
	return splitNames(s, ",/")
}

// JoinAttendees é o formato delimitado usado na exibição.
func JoinAttendees(names []string) string {
	return strings.Join(names, ", ")
}

// MeetingInput é o formulário de criação/edição de reunião.
type MeetingInput struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
	Attendees string `json:"attendees"`
	Creator   string `json:"-"`
}
