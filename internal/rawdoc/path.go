package rawdoc

import (
	"strconv"
	"strings"
)

// FieldPath is an ordered list of dotted key paths that all locate the same logical
// field. Resolution tries them in order; the first one that yields a value wins.
type FieldPath []string

// Field builds a FieldPath from snake_case paths, following each one with its
// camelCase spelling ("waterfall_results.lp_irr" then "waterfallResults.lpIrr").
// Duplicates are dropped and declaration order is kept.
func Field(paths ...string) FieldPath {
	out := make(FieldPath, 0, len(paths)*2)
	seen := make(map[string]bool, len(paths)*2)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	for _, p := range paths {
		add(p)
		add(CamelPath(p))
	}
	return out
}

// Exact builds a FieldPath that matches the given spellings only.
func Exact(paths ...string) FieldPath {
	out := make(FieldPath, len(paths))
	copy(out, paths)
	return out
}

// Under prefixes every path of f with parent.
func (f FieldPath) Under(parent string) FieldPath {
	out := make(FieldPath, len(f))
	for i, p := range f {
		out[i] = parent + "." + p
	}
	return out
}

// CamelPath converts every segment of a dotted snake_case path to camelCase.
func CamelPath(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = camel(seg)
	}
	return strings.Join(segments, ".")
}

func camel(seg string) string {
	if !strings.Contains(seg, "_") {
		return seg
	}
	parts := strings.Split(seg, "_")
	var sb strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 || sb.Len() == 0 {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// SnakeName folds snake_case, camelCase and spaced or hyphenated spellings of a
// name to lower snake_case. Runs of capitals stay together, so "IRR" is "irr".
func SnakeName(name string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '-':
			sb.WriteByte('_')
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			sb.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z'
		}
	}
	return sb.String()
}

// At walks a single dotted path. Numeric segments index into arrays. Missing keys,
// empty segments and non-container intermediates all report false, as does a final null.
func At(src Value, path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	cur := src
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return Value{}, false
		}
		switch cur.kind {
		case KindObject:
			next, ok := cur.obj[seg]
			if !ok {
				return Value{}, false
			}
			cur = next
		case KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return Value{}, false
			}
			next, ok := cur.Index(idx)
			if !ok {
				return Value{}, false
			}
			cur = next
		default:
			return Value{}, false
		}
	}
	if cur.IsNull() {
		return Value{}, false
	}
	return cur, true
}
