package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AtomType classifies an atom.
type AtomType string

const (
	TypeStructure   AtomType = "STRUCTURE"
	TypeLogic       AtomType = "LOGIC"
	TypeBoilerplate AtomType = "BOILERPLATE"
)

// Valid reports whether t is one of the three atom categories.
func (t AtomType) Valid() bool {
	switch t {
	case TypeStructure, TypeLogic, TypeBoilerplate:
		return true
	}
	return false
}

const (
	DefaultTitle     = "Unnamed Node"
	DefaultReasoning = "Essential drafting component."

	ErrorAtomID      = "err_decon_fail"
	ErrorAtomTitle   = "Atomization Engine Error"
	ErrorAtomContent = "The engine failed to achieve high-fidelity mapping due to a formatting error."
)

// Atom is one element of a contract's Symbolic Skeleton.
type Atom struct {
	ID        string   `json:"id" yaml:"id"`
	Type      AtomType `json:"type" yaml:"type"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	Reasoning string   `json:"reasoning" yaml:"reasoning"`
	Approved  bool     `json:"approved" yaml:"approved"`
	IsError   bool     `json:"isError,omitempty" yaml:"isError,omitempty"`
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Placeholders lists the distinct {{NAME}} parameters in Content, in order
// of first appearance.
func (a Atom) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(a.Content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// ErrorAtom is the single diagnostic atom returned when atomization fails.
func ErrorAtom(err error) Atom {
	reason := "Atomization Error: "
	switch {
	case IsMalformedOutput(err):
		reason = "JSON Parsing Error: "
	case IsCapabilityFailure(err):
		reason = "Extraction Capability Error: "
	}
	return Atom{
		ID:        ErrorAtomID,
		Type:      TypeStructure,
		Title:     ErrorAtomTitle,
		Content:   ErrorAtomContent,
		Reasoning: reason + err.Error(),
		IsError:   true,
	}
}

// DocumentStem is the filename up to its first dot, used in atom ids.
func DocumentStem(filename string) string {
	stem, _, _ := strings.Cut(filepath.Base(filename), ".")
	return stem
}

// AtomID builds the id of the i-th atom of a document.
func AtomID(i int, filename string) string {
	return fmt.Sprintf("node_%d_%s", i, DocumentStem(filename))
}

const rawLogLimit = 500

// optString is a JSON string field that may be absent or of the wrong
// type. Anything that is not a string decodes as absent.
type optString struct {
	Value string
	Set   bool
}

func (o *optString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	o.Value, o.Set = s, true
	return nil
}

func (o optString) blank() bool {
	return !o.Set || strings.TrimSpace(o.Value) == ""
}

type rawAtom struct {
	Type      optString `json:"type"`
	Title     optString `json:"title"`
	Content   optString `json:"content"`
	Reasoning optString `json:"reasoning"`
}

// Assemble validates sanitized capability output and converts it into
// atoms with sequential ids and defaults applied. The top level must be
// an array of objects; otherwise a *MalformedOutputError is returned.
func Assemble(cleaned, filename string) ([]Atom, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, &MalformedOutputError{Err: err, Raw: truncate(cleaned, rawLogLimit)}
	}
	if items == nil {
		return nil, &MalformedOutputError{Err: errors.New("top-level value is not an array"), Raw: truncate(cleaned, rawLogLimit)}
	}

	caser := cases.Title(language.Und)
	atoms := make([]Atom, 0, len(items))
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, &MalformedOutputError{
				Err: fmt.Errorf("element %d is not an object", i),
				Raw: truncate(cleaned, rawLogLimit),
			}
		}
		var ra rawAtom
		if err := json.Unmarshal(trimmed, &ra); err != nil {
			return nil, &MalformedOutputError{Err: fmt.Errorf("element %d: %w", i, err), Raw: truncate(cleaned, rawLogLimit)}
		}

		a := Atom{
			ID:        AtomID(i, filename),
			Type:      normalizeType(ra.Type),
			Title:     DefaultTitle,
			Content:   ra.Content.Value,
			Reasoning: DefaultReasoning,
		}
		if !ra.Title.blank() {
			a.Title = caser.String(strings.ReplaceAll(ra.Title.Value, "_", " "))
		}
		if !ra.Reasoning.blank() {
			a.Reasoning = ra.Reasoning.Value
		}
		atoms = append(atoms, a)
	}
	return atoms, nil
}

func normalizeType(o optString) AtomType {
	if !o.Set {
		return TypeBoilerplate
	}
	t := AtomType(strings.ToUpper(strings.TrimSpace(o.Value)))
	if !t.Valid() {
		return TypeBoilerplate
	}
	return t
}
