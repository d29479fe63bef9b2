// Package jsonmd turns a JSON video/course listing into a Markdown bullet
// list grouped by subject.
package jsonmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Record keys as they appear in the source export.
const (
	keySubject     = "Môn học"
	keyTitle       = "Tiêu đề"
	keyCode        = "Mã"
	keyDescription = "Mô tả"
	keyHashtag     = "Hashtag"
	keyCourseID    = "id_course"
	keyFieldsOpt   = "Lĩnh vực(Optional)"
	keyFields      = "Lĩnh vực"
	keyFieldName   = "FIELD_OF_STUDY_NAME"
	keyFieldNameEN = "FIELD_OF_STUDY_NAME_EN"

	defaultHeading = "Danh sách Video"
	defaultSubject = "Khác"
	defaultTitle   = "(Không tiêu đề)"
)

const inputSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {"type": "array"}
  }
}`

var schema = jsonschema.MustCompileString("listing.schema.json", inputSchema)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`#`, `\#`,
)

// Escape backslash-escapes the characters Markdown would interpret.
func Escape(s string) string {
	return escaper.Replace(s)
}

type group struct {
	subject string
	items   []map[string]any
}

// Render converts a decoded listing into Markdown. obj must carry a "data"
// array; entries that are not objects are skipped. Subjects are sorted
// case-insensitively and records keep their input order within a subject.
func Render(obj map[string]any) (string, error) {
	if err := schema.Validate(obj); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	data, _ := obj["data"].([]any)

	var groups []*group
	index := map[string]*group{}
	for _, entry := range data {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		subject := defaultSubject
		if v, ok := item[keySubject]; ok && v != nil {
			subject = text(v)
		}
		g, ok := index[subject]
		if !ok {
			g = &group{subject: subject}
			index[subject] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, item)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].subject) < strings.ToLower(groups[j].subject)
	})

	var lines []string
	lines = append(lines, "# "+Escape(heading(obj)), "")
	for _, g := range groups {
		lines = append(lines, "## Môn học: "+Escape(g.subject), "")
		for _, item := range g.items {
			lines = append(lines, recordLines(item)...)
		}
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n") + "\n", nil
}

func heading(obj map[string]any) string {
	for _, k := range []string{"message", "Message"} {
		if s := text(obj[k]); s != "" {
			return s
		}
	}
	return defaultHeading
}

func recordLines(item map[string]any) []string {
	title := defaultTitle
	if v, ok := item[keyTitle]; ok && v != nil {
		title = text(v)
	}
	lines := []string{"- " + Escape(title)}

	sub := func(label, value string) {
		if value != "" {
			lines = append(lines, "  - "+label+": "+value)
		}
	}

	if code := text(item[keyCode]); code != "" {
		sub("ID", Escape(code))
	}
	if desc := text(item[keyDescription]); desc != "" {
		sub("Mô tả", Escape(desc))
	}
	if tags := hashtags(item[keyHashtag]); tags != "" {
		sub("Hashtag", Escape(tags))
	}
	if course := text(item[keyCourseID]); course != "" {
		sub("id_course", "`"+Escape(course)+"`")
	}

	vn, en := fieldsOfStudy(item)
	if len(vn) > 0 {
		sub("Lĩnh vực", Escape(join(vn)))
	}
	if len(en) > 0 {
		sub("Lĩnh vực (EN)", Escape(join(en)))
	}
	return lines
}

func hashtags(v any) string {
	list, ok := v.([]any)
	if !ok {
		return text(v)
	}
	parts := make([]string, 0, len(list))
	for _, x := range list {
		parts = append(parts, text(x))
	}
	return join(parts)
}

func fieldsOfStudy(item map[string]any) (vn, en []string) {
	raw, ok := item[keyFieldsOpt].([]any)
	if !ok || len(raw) == 0 {
		raw, _ = item[keyFields].([]any)
	}
	for _, f := range raw {
		m, ok := f.(map[string]any)
		if !ok {
			continue
		}
		if s := text(m[keyFieldName]); s != "" {
			vn = append(vn, s)
		}
		if s := text(m[keyFieldNameEN]); s != "" {
			en = append(en, s)
		}
	}
	return vn, en
}

// join concatenates the non-empty values with ", ".
func join(values []string) string {
	kept := values[:0:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

// text renders a decoded JSON scalar the way it appeared in the source.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
