// library.go implements the WGSL shader source pre-processor. It scans shader
// source for $group[,binding] placeholder markers following a variable name on
// the same line, and rewrites each into a fully qualified
// @group/@binding var<> declaration, using an ordered list of binding Types
// supplied by the caller. Two type-definition blocks are prepended to every
// parsed shader: the engine's global WGSL types (Camera, AABB) and a block of
// host-registered custom types.
//
// The substitution is purely textual. The pre-processor does not parse WGSL,
// so a marker inside a comment or string-like construct that matches the
// placeholder pattern is rewritten like any other. This is a known limitation
// of the design, not a bug: the pre-processor is a code-generation step, and
// malformed output is surfaced by the shader compiler with the generated
// source attached.
package shader

import (
	_ "embed"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
)

// globalTypesSource is the canonical WGSL definition block for engine types
// shared by every shader (Camera, AABB). It is prepended to all parsed source.
//
//go:embed assets/global_shader_types.wgsl
var globalTypesSource string

// marker is the placeholder character introducing a binding substitution.
const marker = "$"

// terminator ends a placeholder; the text between marker and terminator is
// the group index, optionally followed by ",binding".
const terminator = ";"

// maxSubstitutions caps the number of scan iterations per Parse call. This is
// a safety valve guaranteeing termination on malformed input, not a
// correctness guarantee: if the cap is hit, the remaining markers are left in
// the returned text and will fail at shader-compile time.
const maxSubstitutions = 1000

// library is the implementation of the Library interface.
type library struct {
	customTypes strings.Builder
	verbose     bool
	validate    bool
}

// Library owns the shared WGSL type-definition blocks and performs placeholder
// substitution over shader source. Custom types are registered once at startup
// before the first Parse; a Library must not be mutated while shaders are
// being built concurrently.
type Library interface {
	// Parse prepends the global and custom type blocks to source, then rewrites
	// each $group[,binding]; placeholder into a @group/@binding declaration
	// using bindingTypes[group]. Placeholders whose group or binding index is
	// out of range, or whose indices do not parse as unsigned integers, are
	// left unresolved in the output; the scan advances past them. Substitution
	// stops after maxSubstitutions iterations.
	//
	// Parameters:
	//   - source: the raw WGSL shader source containing placeholders
	//   - bindingTypes: binding metadata indexed by group, in bind-group order
	//
	// Returns:
	//   - string: the rewritten source with type blocks prepended
	Parse(source string, bindingTypes []Type) string

	// Validate parses the given WGSL source with the naga front end and
	// returns an error describing the first problem found. It requires no GPU
	// and is intended to surface malformed generated source (including
	// unresolved placeholders) before device submission.
	//
	// Parameters:
	//   - source: fully rewritten WGSL source
	//
	// Returns:
	//   - error: nil if the source parses cleanly
	Validate(source string) error

	// RegisterCustomTypes appends a block of WGSL type definitions to the
	// custom-type block prepended to every parsed shader. Call during startup,
	// before the first Parse.
	//
	// Parameters:
	//   - wgslSource: WGSL struct definitions to append
	RegisterCustomTypes(wgslSource string)

	// CustomTypes returns the accumulated custom type-definition block.
	//
	// Returns:
	//   - string: the registered custom WGSL type definitions
	CustomTypes() string

	// GlobalTypes returns the engine's global WGSL type-definition block.
	//
	// Returns:
	//   - string: the global WGSL type definitions
	GlobalTypes() string

	// ShouldValidate reports whether shaders built from this library should be
	// checked with Validate before module creation.
	//
	// Returns:
	//   - bool: true if validation was enabled via WithValidation
	ShouldValidate() bool
}

var _ Library = &library{}

// LibraryOption configures a Library at construction time.
type LibraryOption func(*library)

// WithCustomTypes seeds the custom type-definition block.
//
// Parameters:
//   - wgslSource: WGSL struct definitions to register
//
// Returns:
//   - LibraryOption: the option to pass to NewLibrary
func WithCustomTypes(wgslSource string) LibraryOption {
	return func(l *library) {
		l.customTypes.WriteString(wgslSource)
	}
}

// WithVerbose enables logging of every fully rewritten shader source, a
// development aid for diagnosing substitution problems.
//
// Returns:
//   - LibraryOption: the option to pass to NewLibrary
func WithVerbose() LibraryOption {
	return func(l *library) {
		l.verbose = true
	}
}

// WithValidation enables naga front-end validation of rewritten source during
// shader construction, turning unresolved placeholders and other generation
// mistakes into immediate errors instead of deferred device-side failures.
//
// Returns:
//   - LibraryOption: the option to pass to NewLibrary
func WithValidation() LibraryOption {
	return func(l *library) {
		l.validate = true
	}
}

// NewLibrary creates a Library with the engine's global type block and any
// options applied.
//
// Parameters:
//   - options: a variadic list of options to configure the library
//
// Returns:
//   - Library: a ready-to-use shader library
func NewLibrary(options ...LibraryOption) Library {
	l := &library{}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *library) RegisterCustomTypes(wgslSource string) {
	l.customTypes.WriteString(wgslSource)
	if !strings.HasSuffix(wgslSource, "\n") {
		l.customTypes.WriteString("\n")
	}
}

func (l *library) CustomTypes() string {
	return l.customTypes.String()
}

func (l *library) GlobalTypes() string {
	return globalTypesSource
}

func (l *library) ShouldValidate() bool {
	return l.validate
}

func (l *library) Parse(source string, bindingTypes []Type) string {
	parsed := fmt.Sprintf("//GLOBAL TYPES\n%s\n//CUSTOM TYPES\n%s\n//SHADER DEFINITION\n%s\n",
		globalTypesSource, l.customTypes.String(), source)

	searchFrom := 0
	for i := 0; i < maxSubstitutions; i++ {
		dollar := strings.Index(parsed[searchFrom:], marker)
		if dollar < 0 {
			break
		}
		dollar += searchFrom

		end := strings.Index(parsed[dollar:], terminator)
		if end < 0 {
			// No terminator left anywhere after the marker; nothing further
			// can be substituted.
			break
		}
		end += dollar

		group, bindingIndex, ok := parsePlaceholder(parsed[dollar+len(marker) : end])
		if !ok || group >= len(bindingTypes) || bindingIndex >= bindingTypes[group].Len() {
			// Unresolved placeholder: leave the text untouched and advance
			// past the marker so the scan cannot loop on it. The leftover
			// marker becomes a shader-compile error downstream.
			searchFrom = dollar + len(marker)
			continue
		}

		lineStart := strings.LastIndex(parsed[:dollar], "\n") + 1
		name := parsed[lineStart:dollar]
		bt := bindingTypes[group]
		declaration := fmt.Sprintf("@group(%d) @binding(%d) var%s %s %s",
			group, bindingIndex, bt.VarTypes[bindingIndex], name, bt.WGSLTypes[bindingIndex])
		parsed = parsed[:lineStart] + declaration + parsed[end:]
		searchFrom = lineStart + len(declaration)
	}

	if l.verbose {
		log.Printf("shader: parsed source:\n%s", parsed)
	}
	return parsed
}

func (l *library) Validate(source string) error {
	if _, err := naga.Parse(source); err != nil {
		return fmt.Errorf("shader: generated WGSL failed validation: %w\nsource:\n%s", err, source)
	}
	return nil
}

// parsePlaceholder splits the text between a marker and its terminator into a
// group index and an optional binding index (default 0). Matching is strict:
// indices must be bare unsigned decimal integers with no surrounding
// whitespace.
func parsePlaceholder(body string) (group, bindingIndex int, ok bool) {
	parts := strings.Split(body, ",")
	if len(parts) == 0 || len(parts) > 2 {
		return 0, 0, false
	}
	group, err := strconv.Atoi(parts[0])
	if err != nil || group < 0 {
		return 0, 0, false
	}
	if len(parts) == 2 {
		bindingIndex, err = strconv.Atoi(parts[1])
		if err != nil || bindingIndex < 0 {
			return 0, 0, false
		}
	}
	return group, bindingIndex, true
}
