package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mamercad/community.healthchecksio/cli/api"
	"github.com/mamercad/community.healthchecksio/cli/config"
	"github.com/mamercad/community.healthchecksio/cli/style"
)

func report(w io.Writer, format, title string, out api.Outcome) error {
	switch format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case config.OutputPretty:
		renderPretty(w, title, out)
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func renderPretty(w io.Writer, title string, out api.Outcome) {
	if out.Failed {
		fmt.Fprintln(w, style.ErrorBox.Render(out.Msg))
		return
	}

	fmt.Fprintln(w, style.Banner.Render("⚡ HEALTHCHECKS.IO "+strings.ToUpper(title)))

	if isEmpty(out.Data) {
		fmt.Fprintln(w, style.DimText.Render("  Nothing to show."))
		return
	}
	renderValue(w, out.Data, "  ")
	fmt.Fprintln(w)
}

func renderValue(w io.Writer, v any, indent string) {
	switch v := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			switch child := v[k].(type) {
			case []any:
				fmt.Fprintln(w, style.TableHeader.Render(fmt.Sprintf("%s%s (%d)", indent, k, len(child))))
				renderValue(w, child, indent)
			case map[string]any:
				fmt.Fprintln(w, style.TableHeader.Render(indent+k))
				renderValue(w, child, indent+"  ")
			default:
				fmt.Fprintf(w, "%s%s%s\n", indent, style.Key.Render(k), style.Val.Render(scalar(child)))
			}
		}
	case []any:
		if len(v) == 0 {
			fmt.Fprintln(w, indent+style.DimText.Render("—"))
		}
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				fmt.Fprintf(w, "%s%s  %s\n", indent, style.CheckDot(itemStatus(m)), summarize(m))
				continue
			}
			fmt.Fprintf(w, "%s%s\n", indent, style.Val.Render(scalar(item)))
		}
	default:
		fmt.Fprintln(w, indent+style.Val.Render(scalar(v)))
	}
}

// itemStatus reads a check status, a flip's up flag or a ping type.
func itemStatus(m map[string]any) string {
	if s, ok := m["status"].(string); ok {
		return s
	}
	if up, ok := m["up"].(float64); ok {
		if up == 1 {
			return "up"
		}
		return "down"
	}
	if s, ok := m["type"].(string); ok {
		return s
	}
	return ""
}

var summaryKeys = []string{"name", "timestamp", "date", "type", "kind", "status", "tags", "uuid", "id"}

func summarize(m map[string]any) string {
	var parts []string
	for i, k := range summaryKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s := scalar(v)
		if s == "" {
			continue
		}
		if i == 0 {
			parts = append(parts, style.Bold.Render(s))
			continue
		}
		parts = append(parts, style.DimText.Render(s))
	}
	if len(parts) == 0 {
		b, _ := json.Marshal(m)
		return string(b)
	}
	return strings.Join(parts, "  ")
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
