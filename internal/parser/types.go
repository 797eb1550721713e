package parser

// Language represents a programming language
type Language string

const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageUnknown    Language = "unknown"
)

// ParsedFile represents a parsed source file
type ParsedFile struct {
	Path      string
	Language  Language
	Functions []Function
}

// Function represents a parsed function or method
type Function struct {
	ID        string // Unique identifier: file:line:name
	Name      string
	StartLine int
	EndLine   int
	Exported  bool
	Class     string // Parent class or receiver type (if method)
}

// FunctionNames returns the names of all parsed functions.
func (f *ParsedFile) FunctionNames() []string {
	names := make([]string, 0, len(f.Functions))
	for _, fn := range f.Functions {
		names = append(names, fn.Name)
	}
	return names
}

// FunctionAt returns the innermost function whose span contains line, or
// nil when the line is outside every function.
func (f *ParsedFile) FunctionAt(line int) *Function {
	var best *Function
	for i := range f.Functions {
		fn := &f.Functions[i]
		if line < fn.StartLine || line > fn.EndLine {
			continue
		}
		if best == nil || fn.StartLine > best.StartLine {
			best = fn
		}
	}
	return best
}
