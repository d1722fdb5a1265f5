package java

import (
	"slices"
	"strings"

	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/classfile"
)

var log = commonlog.GetLogger("stubgen.java")

// Generator turns class metadata into ClassModel trees.
type Generator struct {
	env         *Environment
	mappings    Mappings
	strict      bool
	diagnostics []error
}

type Option func(*Generator)

// WithStrict makes a member with a malformed descriptor or signature fail
// the run instead of being skipped.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

func NewGenerator(env *Environment, mappings Mappings, opts ...Option) *Generator {
	if env == nil {
		env = NewEnvironmentBuilder().Build()
	}
	if mappings == nil {
		mappings = NoMappings{}
	}
	g := &Generator{env: env, mappings: mappings}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Diagnostics returns the recoverable problems met so far: parameter
// name collisions and skipped members.
func (g *Generator) Diagnostics() []error {
	return g.diagnostics
}

// Generate builds one model per top-level class, with nested classes
// attached to their parents. Classes are visited in name order, which
// puts every class after the class enclosing it. Synthetic classes and
// local or anonymous classes are left out together with everything
// nested in them.
func (g *Generator) Generate(nodes []*classfile.ClassNode) ([]*ClassModel, error) {
	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, func(a, b *classfile.ClassNode) int {
		return strings.Compare(a.Name, b.Name)
	})

	built := map[string]*classBuilder{}
	skipped := map[string]bool{}
	var roots []*ClassModel
	for _, node := range sorted {
		if node.Access.IsSynthetic() || IsLocalOrAnonymous(node.Name) || isInfoClass(node.Name) || skipped[enclosingName(node.Name)] {
			log.Debugf("skipping %s", node.Name)
			skipped[node.Name] = true
			continue
		}
		b, err := g.newClass(node)
		if err != nil {
			return nil, errors.Errorf("failed to process class %s: %w", node.Name, err)
		}
		if parentName := enclosingName(node.Name); parentName != "" {
			parent, ok := built[parentName]
			if !ok {
				return nil, errors.WithStack(&MissingParentClassError{Class: node.Name, Parent: parentName})
			}
			parent.attach(b)
		} else {
			b.seal()
			roots = append(roots, b.model)
		}
		if err := b.buildMembers(); err != nil {
			return nil, errors.Errorf("failed to process class %s: %w", node.Name, err)
		}
		built[node.Name] = b
	}
	log.Infof("generated %d top-level classes from %d class files", len(roots), len(nodes))
	return roots, nil
}

// IsLocalOrAnonymous reports whether a name, or any name it is nested in,
// is that of a local or anonymous class: one whose simple name starts
// with a digit.
func IsLocalOrAnonymous(name string) bool {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	for _, segment := range strings.Split(name, "$") {
		if segment != "" && segment[0] >= '0' && segment[0] <= '9' {
			return true
		}
	}
	return false
}

// enclosingName returns the name up to the last '$', or "" for a name
// without one.
func enclosingName(name string) string {
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		return name[:i]
	}
	return ""
}

func isInfoClass(name string) bool {
	return name == "module-info" || name == "package-info" || strings.HasSuffix(name, "/package-info")
}

// skipMember decides what happens to a member that failed to build. A
// malformed descriptor or signature skips the member unless the
// generator is strict; anything else fails the class.
func (g *Generator) skipMember(class, member, desc string, err error) error {
	if g.strict || !isMalformed(err) {
		return errors.Errorf("member %s %s: %w", member, desc, err)
	}
	skipped := &SkippedMemberError{Class: class, Member: member, Descriptor: desc, Err: err}
	log.Errorf("%s", skipped)
	g.diagnostics = append(g.diagnostics, skipped)
	return nil
}

func (g *Generator) collision(c *ParameterNameCollision) {
	log.Warningf("%s, resetting", c)
	g.diagnostics = append(g.diagnostics, c)
}
