// Package analytics busca os indicadores de vendas, anúncios e redes sociais
// do painel. Nenhum adaptador devolve erro: falhas viram resumos zerados.
package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Preset string

const (
	PresetToday      Preset = "today"
	PresetYesterday  Preset = "yesterday"
	PresetLast7Days  Preset = "last7days"
	PresetLast30Days Preset = "last30days"
	PresetMonthToDay Preset = "mtd"
	PresetCustom     Preset = "custom"
)

const dayLayout = "2006-01-02"

var (
	ErrUnknownPreset = errors.New("período desconhecido")
	ErrInvalidRange  = errors.New("intervalo de datas inválido")
)

// DateRange é inclusivo nas duas pontas.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() || r.End.IsZero()
}

// OrDefault troca um intervalo vazio pelos últimos 7 dias até now.
func (r DateRange) OrDefault(now time.Time) DateRange {
	if !r.IsZero() {
		return r
	}
	return DateRange{Start: now.AddDate(0, 0, -7), End: now}
}

// RangeFor resolve um preset em relação a now, com dias inteiros em loc.
// Para custom, start e end são datas YYYY-MM-DD.
func RangeFor(preset Preset, start, end string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := startOfDay(now)

	switch Preset(strings.ToLower(string(preset))) {
	case "", PresetLast7Days:
		return days(today.AddDate(0, 0, -6), today), nil
	case PresetToday:
		return days(today, today), nil
	case PresetYesterday:
		y := today.AddDate(0, 0, -1)
		return days(y, y), nil
	case PresetLast30Days:
		return days(today.AddDate(0, 0, -29), today), nil
	case PresetMonthToDay:
		return days(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), today), nil
	case PresetCustom:
		if start == "" || end == "" {
			return DateRange{}, fmt.Errorf("%w: informe início e fim", ErrInvalidRange)
		}
		s, err := time.ParseInLocation(dayLayout, start, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: início %q", ErrInvalidRange, start)
		}
		e, err := time.ParseInLocation(dayLayout, end, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: fim %q", ErrInvalidRange, end)
		}
		if e.Before(s) {
			return DateRange{}, fmt.Errorf("%w: fim antes do início", ErrInvalidRange)
		}
		return days(s, e), nil
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
}

func days(first, last time.Time) DateRange {
	return DateRange{Start: first, End: last.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
