package patch

import (
	"regexp"
	"sort"
	"strings"
)

// Edit is the change to apply to the selected element. Exactly one of Styles
// or Class should be set. OriginalClass is an optional hint from the caller:
// when the selector has no class/id filter, a candidate only matches if its
// full class value equals the hint.
type Edit struct {
	Styles        map[string]string // kebab-case CSS property -> value
	Class         *string           // replacement class string
	OriginalClass string
}

// Matches className="...", className={`...`}, or className={'...'}.
var classAttrRe = regexp.MustCompile("className=(?:\"([^\"]*)\"|\\{`([^`]*)`\\}|\\{'([^']*)'\\})")

// Matches an inline object-literal style attribute.
var styleAttrRe = regexp.MustCompile(`style=\{\{([^}]*)\}\}`)

// Matches one `key: 'value'` pair inside a style object literal.
var stylePairRe = regexp.MustCompile(`(\w+):\s*'([^']*)'`)

// Apply patches the first element matching sel in source. It returns the
// modified source and whether a target was found. When no element satisfies
// the selector the source is returned unchanged with matched=false; that is a
// distinguished non-error outcome, not a failure.
//
// Known limitation: the scan is token-based. A tag name appearing inside a
// string-valued attribute (e.g. data-x="<div") can be picked up as an
// opening tag; selector filters are the caller's tool for avoiding that.
func Apply(source string, sel Selector, edit Edit) (string, bool) {
	start, end, ok := findTarget(source, sel, edit.OriginalClass)
	if !ok {
		return source, false
	}

	tag := source[start:end]
	var newTag string
	switch {
	case edit.Class != nil:
		newTag = applyClass(tag, sel.Tag, *edit.Class)
	case len(edit.Styles) > 0:
		newTag = applyStyles(tag, sel.Tag, edit.Styles)
	default:
		return source, false
	}

	return source[:start] + newTag + source[end:], true
}

// findTarget locates the span [start, end) of the opening tag of the first
// element in document order that satisfies the selector.
func findTarget(source string, sel Selector, originalClass string) (int, int, bool) {
	needle := "<" + sel.Tag
	offset := 0
	for {
		idx := strings.Index(source[offset:], needle)
		if idx < 0 {
			return 0, 0, false
		}
		start := offset + idx
		offset = start + 1

		// The tag name must end here: "<div" must not match "<divider".
		after := start + len(needle)
		if after < len(source) {
			c := source[after]
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '>' && c != '/' {
				continue
			}
		}

		// Closing boundary: first '>' (covers both '>' and '/>').
		closeIdx := strings.IndexByte(source[start:], '>')
		if closeIdx < 0 {
			continue
		}
		end := start + closeIdx + 1
		tag := source[start:end]

		switch {
		case sel.ClassFilter != "":
			if classValue, ok := classValue(tag); ok {
				for _, token := range strings.Fields(classValue) {
					if token == sel.ClassFilter {
						return start, end, true
					}
				}
			}
		case sel.IDFilter != "":
			if hasID(tag, sel.IDFilter) {
				return start, end, true
			}
		case originalClass != "":
			if classValue, ok := classValue(tag); ok && classValue == originalClass {
				return start, end, true
			}
		default:
			return start, end, true
		}
	}
}

func classValue(tag string) (string, bool) {
	m := classAttrRe.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	for _, group := range m[1:] {
		if group != "" {
			return group, true
		}
	}
	// An empty class attribute still counts as present.
	return "", true
}

func hasID(tag, id string) bool {
	return strings.Contains(tag, `id="`+id+`"`) || strings.Contains(tag, `id={'`+id+`'}`)
}

// camelCase converts a kebab-case CSS property to the React style key,
// e.g. background-color -> backgroundColor.
func camelCase(prop string) string {
	parts := strings.Split(prop, "-")
	out := parts[0]
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		out += strings.ToUpper(p[:1]) + p[1:]
	}
	return out
}

// applyStyles merges the delta into the tag's inline style attribute,
// creating the attribute right after the tag name when absent. Existing key
// order is preserved; new keys are appended in sorted order so repeated
// applications are stable.
func applyStyles(tag, tagName string, delta map[string]string) string {
	styles := make(map[string]string, len(delta))
	for k, v := range delta {
		styles[camelCase(k)] = v
	}

	if m := styleAttrRe.FindStringSubmatch(tag); m != nil {
		var order []string
		merged := make(map[string]string)
		for _, pair := range stylePairRe.FindAllStringSubmatch(m[1], -1) {
			if _, seen := merged[pair[1]]; !seen {
				order = append(order, pair[1])
			}
			merged[pair[1]] = pair[2]
		}
		var added []string
		for k, v := range styles {
			if _, seen := merged[k]; !seen {
				added = append(added, k)
			}
			merged[k] = v
		}
		sort.Strings(added)
		order = append(order, added...)

		return styleAttrRe.ReplaceAllString(tag, "style={{"+serializeStyles(order, merged)+"}}")
	}

	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attr := " style={{" + serializeStyles(keys, styles) + "}}"

	insert := len("<" + tagName)
	return tag[:insert] + attr + tag[insert:]
}

func serializeStyles(order []string, styles map[string]string) string {
	pairs := make([]string, 0, len(order))
	for _, k := range order {
		pairs = append(pairs, k+": '"+styles[k]+"'")
	}
	return strings.Join(pairs, ", ")
}

// applyClass replaces the element's entire class value with the new literal,
// normalizing to a double-quoted attribute, or inserts one when absent.
func applyClass(tag, tagName, class string) string {
	attr := `className="` + class + `"`
	if classAttrRe.MatchString(tag) {
		return classAttrRe.ReplaceAllString(tag, attr)
	}
	insert := len("<" + tagName)
	return tag[:insert] + " " + attr + tag[insert:]
}
