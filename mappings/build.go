package mappings

import (
	"strings"
)

// build indexes the parsed classes by their names in namespace target.
// Descriptors are written in the first namespace and are remapped first.
func build(raw []*rawClass, target int, namespaces []string) *Store {
	store := &Store{Namespaces: namespaces, classes: map[string]*class{}}

	classNames := map[string]string{}
	for _, rc := range raw {
		if name := pick(rc.names, target); name != rc.names[0] {
			classNames[rc.names[0]] = name
		}
	}
	remap := func(desc string) string {
		if target == 0 || len(classNames) == 0 {
			return desc
		}
		return remapDescriptor(desc, classNames)
	}

	for _, rc := range raw {
		name := pick(rc.names, target)
		c := store.classes[name]
		if c == nil {
			c = &class{fields: map[memberKey]string{}, methods: map[memberKey]*method{}}
			store.classes[name] = c
		}
		if rc.doc != "" {
			c.doc = rc.doc
		}
		for _, f := range rc.fields {
			if f.doc != "" {
				c.fields[memberKey{pick(f.names, target), remap(f.desc)}] = f.doc
			}
		}
		for _, m := range rc.methods {
			entry := &method{doc: m.doc, params: map[int]param{}}
			for slot, p := range m.params {
				if name := p.names[target]; name != "" || p.doc != "" {
					entry.params[slot] = param{name: name, doc: p.doc}
				}
			}
			if entry.doc == "" && len(entry.params) == 0 {
				continue
			}
			c.methods[memberKey{pick(m.names, target), remap(m.desc)}] = entry
		}
	}
	return store
}

// pick returns the name in namespace target, falling back to the first
// namespace when the file leaves it empty.
func pick(names []string, target int) string {
	if names[target] != "" {
		return names[target]
	}
	return names[0]
}

// remapDescriptor renames the classes referenced by a field or method
// descriptor.
func remapDescriptor(desc string, classNames map[string]string) string {
	var b strings.Builder
	for i := 0; i < len(desc); i++ {
		c := desc[i]
		b.WriteByte(c)
		if c != 'L' {
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			b.WriteString(desc[i+1:])
			break
		}
		name := desc[i+1 : i+end]
		if mapped, ok := classNames[name]; ok {
			name = mapped
		}
		b.WriteString(name)
		b.WriteByte(';')
		i += end
	}
	return b.String()
}

var unescaper = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\0`, "\x00",
)

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return unescaper.Replace(s)
}
