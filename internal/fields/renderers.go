package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Output layouts for date renderers.
const (
	DateLayout     = "Mon, 02 Jan 2006"
	DatetimeLayout = "Mon, 02 Jan 2006 15:04:05 MST"
)

var datetimeInputs = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
}

// RenderKind runs the built-in renderer k directly. Render uses it for
// descriptors; callers use it to render keys outside the registry.
func (r *Renderer) RenderKind(k Kind, value any, fields map[string]any, asObject bool) (any, error) {
	switch k {
	case KindString:
		return value, nil
	case KindAuto:
		return r.auto(value, asObject)
	case KindKey:
		return project(value, "key", asObject)
	case KindValue:
		return project(value, "value", asObject)
	case KindName:
		return project(value, "name", asObject)
	case KindUser:
		return renderUser(value, asObject)
	case KindUserList:
		return projectList(value, "displayName", asObject)
	case KindNameList:
		return projectList(value, "name", asObject)
	case KindValueList:
		return projectList(value, "value", asObject)
	case KindArray:
		return r.array(value, asObject)
	case KindOptionWithChild:
		return optionWithChild(value, asObject)
	case KindDate:
		return r.date(value, asObject)
	case KindDatetime:
		return r.datetime(value, asObject)
	case KindPriority:
		return renderPriority(value, asObject)
	case KindReporter:
		return renderReporter(value, fields, asObject)
	case KindCreated:
		return r.created(value, fields, asObject)
	case KindVotes:
		return renderCount(value, "votes", "voters", asObject)
	case KindWatches:
		return renderCount(value, "watchCount", "watchers", asObject)
	case KindWorkRatio:
		return renderWorkRatio(value, asObject)
	case KindSprint:
		return renderSprints(value, asObject)
	default:
		return r.auto(value, asObject)
	}
}

func asMap(value any) (map[string]any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: want object, got %T", ErrUnexpectedType, value)
	}
	return m, nil
}

func asList(value any) ([]any, error) {
	l, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: want list, got %T", ErrUnexpectedType, value)
	}
	return l, nil
}

func (r *Renderer) auto(value any, asObject bool) (any, error) {
	switch t := value.(type) {
	case string:
		return t, nil
	case []any:
		return r.array(t, asObject)
	case map[string]any:
		label, ok := t["name"]
		if !ok {
			label, ok = t["value"]
		}
		if !ok {
			if asObject {
				return t, nil
			}
			return Stringify(t), nil
		}
		if asObject {
			return label, nil
		}
		if id, ok := t["id"]; ok {
			return fmt.Sprintf("%s (ID: %s)", Stringify(label), Stringify(id)), nil
		}
		return Stringify(label), nil
	case float64:
		if asObject {
			return t, nil
		}
		return Stringify(t), nil
	default:
		if asObject {
			return value, nil
		}
		return Stringify(value), nil
	}
}

func (r *Renderer) array(value any, asObject bool) (any, error) {
	items, err := asList(value)
	if err != nil {
		return nil, err
	}
	if asObject {
		return items, nil
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if _, isMap := item.(map[string]any); isMap {
			v, err := r.auto(item, false)
			if err != nil {
				return nil, err
			}
			parts = append(parts, Stringify(v))
			continue
		}
		parts = append(parts, Stringify(item))
	}
	return strings.Join(parts, ", "), nil
}

// project returns one key of an object. A missing key is an error rather
// than a suppression, so malformed data is visible.
func project(value any, key string, asObject bool) (any, error) {
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingKey, key)
	}
	if asObject {
		return v, nil
	}
	return Stringify(v), nil
}

func projectList(value any, key string, asObject bool) (any, error) {
	items, err := asList(value)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items))
	parts := make([]string, 0, len(items))
	for _, item := range items {
		v, err := project(item, key, true)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		parts = append(parts, Stringify(v))
	}
	if asObject {
		return out, nil
	}
	return strings.Join(parts, ", "), nil
}

func renderUser(value any, asObject bool) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	if asObject {
		return m, nil
	}
	return formatUser(m)
}

func formatUser(m map[string]any) (string, error) {
	name, ok := m["displayName"]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrMissingKey, "displayName")
	}
	email, _ := m["emailAddress"].(string)
	if email == "" {
		return Stringify(name), nil
	}
	return Stringify(name) + " - " + email, nil
}

func optionWithChild(value any, asObject bool) (any, error) {
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	if asObject {
		return m, nil
	}
	parent, ok := m["value"]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingKey, "value")
	}
	child, ok := m["child"].(map[string]any)
	if !ok {
		return Stringify(parent), nil
	}
	return Stringify(parent) + " - " + Stringify(child["value"]), nil
}

func parseDatetime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range datetimeInputs {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (r *Renderer) date(value any, asObject bool) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: want date string, got %T", ErrUnexpectedType, value)
	}
	t, err := time.ParseInLocation("2006-01-02", s, r.location)
	if err != nil {
		return nil, err
	}
	if asObject {
		return t, nil
	}
	return t.Format(DateLayout), nil
}

func (r *Renderer) datetime(value any, asObject bool) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: want timestamp string, got %T", ErrUnexpectedType, value)
	}
	t, err := parseDatetime(s)
	if err != nil {
		return nil, err
	}
	t = t.In(r.location)
	if asObject {
		return t, nil
	}
	return t.Format(DatetimeLayout), nil
}

// renderPriority hides the tracker's "Undefined" placeholder priority.
func renderPriority(value any, asObject bool) (any, error) {
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	name, _ := m["name"].(string)
	if name == "" || name == "Undefined" {
		return nil, nil
	}
	if asObject {
		return m, nil
	}
	return name, nil
}

// userIdentity picks the most specific identifier a user object carries.
func userIdentity(m map[string]any) string {
	for _, key := range []string{"accountId", "key", "name", "emailAddress", "displayName"} {
		if v, ok := m[key].(string); ok && v != "" {
			return key + ":" + v
		}
	}
	return ""
}

// renderReporter hides the reporter when it is the creator.
func renderReporter(value any, fields map[string]any, asObject bool) (any, error) {
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	if creator, ok := fields["creator"].(map[string]any); ok {
		if id := userIdentity(m); id != "" && id == userIdentity(creator) {
			return nil, nil
		}
	}
	return renderUser(m, asObject)
}

// created folds the update time into the creation time when they differ.
func (r *Renderer) created(value any, fields map[string]any, asObject bool) (any, error) {
	created, err := r.datetime(value, asObject)
	if err != nil {
		return nil, err
	}
	updatedRaw, ok := fields["updated"].(string)
	if !ok || updatedRaw == "" || updatedRaw == value {
		return created, nil
	}
	updated, err := r.datetime(updatedRaw, asObject)
	if err != nil {
		return nil, err
	}
	if asObject {
		return map[string]any{"created": created, "updated": updated}, nil
	}
	return fmt.Sprintf("%s (Updated %s)", created, updated), nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	}
	return 0, false
}

// renderCount renders vote and watch objects as "count: names" when there
// is a nonzero count and names to show, and as the bare count otherwise.
func renderCount(value any, countKey, usersKey string, asObject bool) (any, error) {
	m, err := asMap(value)
	if err != nil {
		return nil, err
	}
	count, ok := toInt(m[countKey])
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingKey, countKey)
	}

	var names []string
	if users, ok := m[usersKey].([]any); ok {
		for _, u := range users {
			if um, ok := u.(map[string]any); ok {
				if n, ok := um["displayName"]; ok {
					names = append(names, Stringify(n))
				}
			}
		}
	}

	if asObject {
		return map[string]any{"count": count, "users": names}, nil
	}
	if count != 0 && len(names) > 0 {
		return fmt.Sprintf("%d: %s", count, strings.Join(names, ", ")), nil
	}
	return strconv.Itoa(count), nil
}

// renderWorkRatio hides negative ratios, which the tracker uses for "no
// estimate".
func renderWorkRatio(value any, asObject bool) (any, error) {
	n, ok := toInt(value)
	if !ok {
		return nil, fmt.Errorf("%w: want number, got %T", ErrUnexpectedType, value)
	}
	if n < 0 {
		return nil, nil
	}
	if asObject {
		return n, nil
	}
	return fmt.Sprintf("%d%%", n), nil
}
