package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/maps"
)

// propertiesParser implements koanf.Parser for Java-style .properties
// content: '#'/'!' comments, '='/':' separators, backslash line
// continuations and the usual escape sequences. Values are trimmed, matching
// what property-file consumers expect.
type propertiesParser struct{}

func newPropertiesParser() *propertiesParser {
	return &propertiesParser{}
}

// Unmarshal parses the given .properties bytes. The result is unflattened on
// "." so dotted property names occupy the same nested paths as koanf's other
// providers; otherwise merging against them would depend on map iteration
// order.
func (p *propertiesParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	lines := strings.Split(string(b), "\n")
	for i := 0; i < len(lines); i++ {
		line := logicalLine(lines[i])
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		// A trailing odd number of backslashes continues onto the next line.
		for hasOddTrailingBackslash(line) && i+1 < len(lines) {
			i++
			line = line[:len(line)-1] + logicalLine(lines[i])
		}
		key, value := splitKeyValue(line)
		if key == "" {
			continue
		}
		out[unescape(key)] = strings.TrimSpace(unescape(value))
	}
	return maps.Unflatten(out, "."), nil
}

// Marshal renders a (possibly nested) map back to .properties bytes, keys
// flattened on "." and sorted.
func (p *propertiesParser) Marshal(m map[string]interface{}) ([]byte, error) {
	flat, _ := maps.Flatten(m, nil, ".")

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(escapeKey(key))
		sb.WriteByte('=')
		sb.WriteString(fmt.Sprintf("%v", flat[key]))
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// logicalLine strips leading whitespace and a trailing carriage return.
func logicalLine(raw string) string {
	return strings.TrimRight(strings.TrimLeft(raw, " \t\f"), "\r")
}

// hasOddTrailingBackslash reports whether line ends with an unescaped
// backslash.
func hasOddTrailingBackslash(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitKeyValue splits at the first unescaped '=' or ':'. A line without a
// separator is a key with an empty value.
func splitKeyValue(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '=', ':':
			return strings.TrimSpace(line[:i]), line[i+1:]
		}
	}
	return strings.TrimSpace(line), ""
}

// unescape resolves \t, \n, \r, \f, \uXXXX and pass-through escapes.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			if i+4 < len(s) {
				if code, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(code))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// escapeKey protects separators inside a key.
func escapeKey(key string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "=", `\=`, ":", `\:`, " ", `\ `)
	return replacer.Replace(key)
}
