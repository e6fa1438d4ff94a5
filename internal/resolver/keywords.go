package resolver

// builtinKeywords are call-like constructs provided by the template runtime.
// They are never resolved as a component, helper or modifier.
var builtinKeywords = map[string]bool{
	"-get-dynamic-var":   true,
	"-in-element":        true,
	"-with-dynamic-vars": true,
	"action":             true,
	"array":              true,
	"component":          true,
	"concat":             true,
	"debugger":           true,
	"each":               true,
	"each-in":            true,
	"fn":                 true,
	"get":                true,
	"has-block":          true,
	"has-block-params":   true,
	"hasBlock":           true,
	"hash":               true,
	"helper":             true,
	"if":                 true,
	"in-element":         true,
	"input":              true,
	"let":                true,
	"link-to":            true,
	"log":                true,
	"modifier":           true,
	"mount":              true,
	"mut":                true,
	"on":                 true,
	"outlet":             true,
	"partial":            true,
	"query-params":       true,
	"readonly":           true,
	"textarea":           true,
	"unbound":            true,
	"unique-id":          true,
	"unless":             true,
	"with":               true,
	"yield":              true,
}

// IsBuiltin reports whether name is a built-in keyword.
func IsBuiltin(name string) bool {
	return builtinKeywords[name]
}

// Builtins returns the built-in keyword list in no particular order.
func Builtins() []string {
	names := make([]string, 0, len(builtinKeywords))
	for n := range builtinKeywords {
		names = append(names, n)
	}
	return names
}
