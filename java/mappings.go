package java

// Mappings supplies documentation and parameter names keyed by the names
// found in the class files.
type Mappings interface {
	ClassDoc(class string) string
	FieldDoc(class, name, desc string) string
	MethodDoc(class, name, desc string) string
	// Parameter returns the name and documentation of the parameter held
	// in local variable slot of the given method.
	Parameter(class, name, desc string, slot int) (paramName, doc string, ok bool)
}

// NoMappings provides no names and no documentation.
type NoMappings struct{}

func (NoMappings) ClassDoc(string) string                  { return "" }
func (NoMappings) FieldDoc(string, string, string) string  { return "" }
func (NoMappings) MethodDoc(string, string, string) string { return "" }

func (NoMappings) Parameter(string, string, string, int) (string, string, bool) {
	return "", "", false
}
