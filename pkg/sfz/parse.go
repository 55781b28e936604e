// Package sfz reads SFZ instrument files and imports their regions into a
// bank as presets, samples and zones.
package sfz

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// Section is one header and the opcodes that follow it.
type Section struct {
	Header  string // control, global, master, group or region
	Line    int
	Opcodes map[string]string
}

var (
	tokenRE  = regexp.MustCompile(`<([A-Za-z_]+)>|([A-Za-z0-9_$]+)=`)
	defineRE = regexp.MustCompile(`^#define\s+(\$[A-Za-z0-9_]+)\s+(.*)$`)
)

// Parse tokenizes an SFZ document. Opcode values run to the next opcode or
// header on the same line, so sample paths may contain spaces. Opcodes
// before the first header are an error.
func Parse(r io.Reader) ([]Section, error) {
	var (
		sections []Section
		defines  = map[string]string{}
		lineNo   int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := defineRE.FindStringSubmatch(line); m != nil {
			defines[m[1]] = strings.TrimSpace(m[2])
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		line = expand(line, defines)

		matches := tokenRE.FindAllStringSubmatchIndex(line, -1)
		for i, m := range matches {
			if m[2] >= 0 {
				sections = append(sections, Section{
					Header:  strings.ToLower(line[m[2]:m[3]]),
					Line:    lineNo,
					Opcodes: map[string]string{},
				})
				continue
			}
			end := len(line)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			if len(sections) == 0 {
				return nil, fmt.Errorf("line %d: opcode %q before any header", lineNo, line[m[4]:m[5]])
			}
			key := strings.ToLower(line[m[4]:m[5]])
			sections[len(sections)-1].Opcodes[key] = strings.TrimSpace(line[m[1]:end])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

// expand substitutes #define variables, longest name first so $A does not
// clobber $AB.
func expand(line string, defines map[string]string) string {
	if len(defines) == 0 || !strings.Contains(line, "$") {
		return line
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		line = strings.ReplaceAll(line, name, defines[name])
	}
	return line
}
