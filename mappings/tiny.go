// Package mappings loads Tiny v2 mapping files and answers documentation
// and parameter name lookups for the names of one namespace.
package mappings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/java"
)

var log = commonlog.GetLogger("stubgen.mappings")

const DefaultNamespace = "named"

var ErrUnknownNamespace = errors.Base("unknown namespace")

// SyntaxError reports a line that does not fit the Tiny v2 grammar.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tiny: line %d: %s", e.Line, e.Reason)
}

type memberKey struct {
	name string
	desc string
}

type param struct {
	name string
	doc  string
}

type method struct {
	doc    string
	params map[int]param
}

type class struct {
	doc     string
	fields  map[memberKey]string
	methods map[memberKey]*method
}

// Store holds the documentation and parameter names of one namespace,
// keyed by names and descriptors of that namespace.
type Store struct {
	Namespaces []string
	classes    map[string]*class
}

var _ java.Mappings = (*Store)(nil)

// Load reads the Tiny v2 file at path.
func Load(path, namespace string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	store, err := Read(f, namespace)
	if err != nil {
		return nil, errors.Errorf("failed to load mappings %s: %w", path, err)
	}
	log.Infof("loaded mappings for %d classes from %s", len(store.classes), path)
	return store, nil
}

// Empty returns a Store without any mappings.
func Empty() *Store {
	return &Store{classes: map[string]*class{}}
}

func (s *Store) ClassDoc(name string) string {
	if c := s.classes[name]; c != nil {
		return c.doc
	}
	return ""
}

func (s *Store) FieldDoc(owner, name, desc string) string {
	if c := s.classes[owner]; c != nil {
		return c.fields[memberKey{name, desc}]
	}
	return ""
}

func (s *Store) MethodDoc(owner, name, desc string) string {
	if m := s.method(owner, name, desc); m != nil {
		return m.doc
	}
	return ""
}

func (s *Store) Parameter(owner, name, desc string, slot int) (string, string, bool) {
	m := s.method(owner, name, desc)
	if m == nil {
		return "", "", false
	}
	p, ok := m.params[slot]
	return p.name, p.doc, ok
}

func (s *Store) method(owner, name, desc string) *method {
	if c := s.classes[owner]; c != nil {
		return c.methods[memberKey{name, desc}]
	}
	return nil
}

// Len returns the number of classes with mappings.
func (s *Store) Len() int {
	return len(s.classes)
}

// rawMember keeps the names of a field or method in every namespace and
// its descriptor in the first one, until all classes are known.
type rawMember struct {
	names  []string
	desc   string
	doc    string
	params map[int]*rawParam
}

type rawParam struct {
	names []string
	doc   string
}

type rawClass struct {
	names   []string
	doc     string
	fields  []*rawMember
	methods []*rawMember
}

type tinyReader struct {
	scanner    *bufio.Scanner
	line       int
	namespaces []string
	escaped    bool
}

func (r *tinyReader) fail(format string, args ...any) error {
	return errors.WithStack(&SyntaxError{Line: r.line, Reason: fmt.Sprintf(format, args...)})
}

// Read parses a Tiny v2 file and keeps the names of namespace.
func Read(rd io.Reader, namespace string) (*Store, error) {
	r := &tinyReader{scanner: bufio.NewScanner(rd)}
	r.scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, r.fail("empty file")
	}
	r.line++
	header := strings.Split(r.scanner.Text(), "\t")
	if len(header) < 5 || header[0] != "tiny" || header[1] != "2" {
		return nil, r.fail("expected a tiny v2 header")
	}
	r.namespaces = header[3:]
	target := -1
	for i, ns := range r.namespaces {
		if ns == namespace {
			target = i
		}
	}
	if target < 0 {
		return nil, errors.Errorf("%w %q, file has %s", ErrUnknownNamespace, namespace, strings.Join(r.namespaces, ", "))
	}

	classes, err := r.body()
	if err != nil {
		return nil, err
	}
	return build(classes, target, r.namespaces), nil
}

func (r *tinyReader) body() ([]*rawClass, error) {
	var classes []*rawClass
	var cls *rawClass
	var member *rawMember
	var par *rawParam
	inHeader := true

	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if text == "" {
			continue
		}
		depth := 0
		for depth < len(text) && text[depth] == '\t' {
			depth++
		}
		fields := strings.Split(text[depth:], "\t")

		if inHeader && depth == 1 {
			if fields[0] == "escaped-names" {
				r.escaped = true
			}
			continue
		}
		inHeader = false

		switch {
		case depth == 0 && fields[0] == "c":
			names, err := r.names(fields[1:], 0)
			if err != nil {
				return nil, err
			}
			cls = &rawClass{names: names}
			classes = append(classes, cls)
			member, par = nil, nil
		case depth == 1 && cls != nil && (fields[0] == "f" || fields[0] == "m"):
			if len(fields) < 2 {
				return nil, r.fail("missing descriptor")
			}
			names, err := r.names(fields[2:], 0)
			if err != nil {
				return nil, err
			}
			member = &rawMember{names: names, desc: fields[1]}
			if fields[0] == "f" {
				cls.fields = append(cls.fields, member)
			} else {
				member.params = map[int]*rawParam{}
				cls.methods = append(cls.methods, member)
			}
			par = nil
		case depth == 2 && member != nil && member.params != nil && fields[0] == "p":
			if len(fields) < 2 {
				return nil, r.fail("missing parameter index")
			}
			slot, err := strconv.Atoi(fields[1])
			if err != nil || slot < 0 {
				return nil, r.fail("invalid parameter index %q", fields[1])
			}
			names, err := r.names(fields[2:], 1)
			if err != nil {
				return nil, err
			}
			par = &rawParam{names: names}
			member.params[slot] = par
		case fields[0] == "c":
			if len(fields) < 2 {
				return nil, r.fail("missing comment")
			}
			doc := unescape(fields[1])
			switch {
			case depth == 1 && cls != nil:
				cls.doc = doc
			case depth == 2 && member != nil:
				member.doc = doc
			case depth >= 3:
				if par != nil {
					par.doc = doc
				}
			default:
				return nil, r.fail("comment without owner")
			}
		case depth >= 2:
			// Local variables and extension sections carry nothing we use.
			if depth == 2 {
				par = nil
			}
		default:
			return nil, r.fail("unexpected %q section at depth %d", fields[0], depth)
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return classes, nil
}

// names reads one name per namespace. Up to optional trailing names may
// be missing and read as empty.
func (r *tinyReader) names(fields []string, optional int) ([]string, error) {
	if len(fields) < len(r.namespaces)-optional {
		return nil, r.fail("expected %d names, found %d", len(r.namespaces), len(fields))
	}
	names := make([]string, len(r.namespaces))
	for i := range names {
		if i < len(fields) {
			names[i] = fields[i]
			if r.escaped {
				names[i] = unescape(names[i])
			}
		}
	}
	return names, nil
}
