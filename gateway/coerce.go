package gateway

import (
	"encoding/json"
	"strconv"
	"strings"

	"opsdash/models"
)

// O backend devolve valores heterogêneos: strings, números, objetos de
// colaborador ({id,email,name}), anexos, arrays de registros ligados. Toda
// conversão para o formato da UI passa por uma destas quatro funções:
//
//	Text      -> string escalar (nil vira "", arrays são unidos com ", ")
//	TextList  -> []string (array elemento a elemento, string separada por , ou /)
//	Links     -> []string de ids de registros ligados
//	FirstLink -> primeiro id ligado, ou ""

// Text converte qualquer valor do backend numa string de exibição.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Text(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, key := range []string{"name", "label", "id"} {
			if s, ok := val[key].(string); ok && s != "" {
				return s
			}
		}
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// TextList mantém arrays como lista; strings delimitadas são separadas.
func TextList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return nonEmpty(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, Text(item))
		}
		return nonEmpty(out)
	case string:
		return models.SplitAttendees(val)
	default:
		return nonEmpty([]string{Text(val)})
	}
}

// Links extrai os ids de um campo de registros ligados.
func Links(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				if id, ok := m["id"].(string); ok {
					out = append(out, id)
				}
				continue
			}
			out = append(out, Text(item))
		}
		return nonEmpty(out)
	case []string:
		return nonEmpty(val)
	case string:
		if val == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}

// FirstLink devolve o primeiro id ligado ou "".
func FirstLink(v any) string {
	links := Links(v)
	if len(links) == 0 {
		return ""
	}
	return links[0]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
