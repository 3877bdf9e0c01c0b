package java

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Index records which packages declare which top-level types across a project.
// It is safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	packages map[string]map[string]struct{}

	// fingerprint caches Fingerprint until the next Add.
	fingerprint string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{packages: make(map[string]map[string]struct{})}
}

// Add records that package pkg declares the top-level type name.
func (ix *Index) Add(pkg, name string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	names, ok := ix.packages[pkg]
	if !ok {
		names = make(map[string]struct{})
		ix.packages[pkg] = names
	}
	names[name] = struct{}{}
	ix.fingerprint = ""
}

// Fingerprint returns a digest of the indexed types. Two indexes holding the
// same types have the same fingerprint; a nil index has the empty one.
func (ix *Index) Fingerprint() string {
	if ix == nil {
		return ""
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.fingerprint != "" {
		return ix.fingerprint
	}
	qualified := make([]string, 0, len(ix.packages))
	for pkg, names := range ix.packages {
		for name := range names {
			qualified = append(qualified, pkg+"\x00"+name)
		}
	}
	sort.Strings(qualified)

	hash := sha256.New()
	for _, q := range qualified {
		hash.Write([]byte(q))
		hash.Write([]byte{'\n'})
	}
	ix.fingerprint = hex.EncodeToString(hash.Sum(nil))
	return ix.fingerprint
}

// AddUnit records every top-level type declared by unit.
func (ix *Index) AddUnit(unit *CompilationUnit) {
	for _, t := range unit.Types {
		ix.Add(unit.PackageName(), t.Name.Name)
	}
}

// Has reports whether package pkg is known to declare name.
func (ix *Index) Has(pkg, name string) bool {
	if ix == nil {
		return false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	_, ok := ix.packages[pkg][name]
	return ok
}

// Len returns the number of indexed types.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := 0
	for _, names := range ix.packages {
		n += len(names)
	}
	return n
}

// javaLang lists the java.lang types that are visible without import.
var javaLang = map[string]bool{
	"AbstractMethodError": true, "Appendable": true, "ArithmeticException": true,
	"ArrayIndexOutOfBoundsException": true, "ArrayStoreException": true, "AssertionError": true,
	"AutoCloseable": true, "Boolean": true, "Byte": true, "CharSequence": true, "Character": true,
	"Class": true, "ClassCastException": true, "ClassCircularityError": true,
	"ClassFormatError": true, "ClassLoader": true, "ClassNotFoundException": true,
	"ClassValue": true, "CloneNotSupportedException": true, "Cloneable": true,
	"Comparable": true, "Deprecated": true, "Double": true, "Enum": true,
	"EnumConstantNotPresentException": true, "Error": true, "Exception": true,
	"ExceptionInInitializerError": true, "Float": true, "FunctionalInterface": true,
	"IllegalAccessError": true, "IllegalAccessException": true, "IllegalArgumentException": true,
	"IllegalCallerException": true, "IllegalMonitorStateException": true,
	"IllegalStateException": true, "IllegalThreadStateException": true,
	"IncompatibleClassChangeError": true, "IndexOutOfBoundsException": true,
	"InheritableThreadLocal": true, "InstantiationError": true, "InstantiationException": true,
	"Integer": true, "InternalError": true, "InterruptedException": true, "Iterable": true,
	"LayerInstantiationException": true, "LinkageError": true, "Long": true, "MatchException": true,
	"Math": true, "Module": true, "ModuleLayer": true, "NegativeArraySizeException": true,
	"NoClassDefFoundError": true, "NoSuchFieldError": true, "NoSuchFieldException": true,
	"NoSuchMethodError": true, "NoSuchMethodException": true, "NullPointerException": true,
	"Number": true, "NumberFormatException": true, "Object": true, "OutOfMemoryError": true,
	"Override": true, "Package": true, "Process": true, "ProcessBuilder": true,
	"ProcessHandle": true, "Readable": true, "Record": true, "ReflectiveOperationException": true,
	"Runnable": true, "Runtime": true, "RuntimeException": true, "RuntimePermission": true,
	"SafeVarargs": true, "ScopedValue": true, "SecurityException": true, "Short": true,
	"StackOverflowError": true, "StackTraceElement": true, "StackWalker": true,
	"StrictMath": true, "String": true, "StringBuffer": true, "StringBuilder": true,
	"StringIndexOutOfBoundsException": true, "SuppressWarnings": true, "System": true,
	"Thread": true, "ThreadDeath": true, "ThreadGroup": true, "ThreadLocal": true,
	"Throwable": true, "TypeNotPresentException": true, "UnknownError": true,
	"UnsatisfiedLinkError": true, "UnsupportedClassVersionError": true,
	"UnsupportedOperationException": true, "VerifyError": true, "VirtualMachineError": true,
	"Void": true, "WrongThreadException": true,
}

// Resolve attaches a Binding to every type reference in unit that can be
// resolved by name. The index may be nil.
func Resolve(unit *CompilationUnit, index *Index) {
	r := &resolver{
		unit:      unit,
		index:     index,
		pkg:       unit.PackageName(),
		imports:   make(map[string]string),
		qualified: make(map[*TypeDecl]string),
		topLevel:  make(map[string]*TypeDecl),
	}
	r.collectImports()
	r.collectDecls()

	InspectWithStack(unit, func(n Node, stack []Node) bool {
		if t, ok := n.(*TypeRef); ok {
			t.Binding = r.resolve(t, stack)
		}
		return true
	})
}

type resolver struct {
	unit     *CompilationUnit
	index    *Index
	pkg      string
	imports  map[string]string // simple name -> qualified name
	onDemand []string          // packages (or types) imported with ".*"

	qualified map[*TypeDecl]string
	topLevel  map[string]*TypeDecl
}

func (r *resolver) collectImports() {
	for _, imp := range r.unit.Imports {
		if imp.Static {
			continue
		}
		if imp.OnDemand {
			r.onDemand = append(r.onDemand, imp.Name)
			continue
		}
		r.imports[lastSegment(imp.Name)] = imp.Name
	}
}

func (r *resolver) collectDecls() {
	for _, t := range r.unit.Types {
		r.topLevel[t.Name.Name] = t
	}
	InspectWithStack(r.unit, func(n Node, stack []Node) bool {
		decl, ok := n.(*TypeDecl)
		if !ok {
			return true
		}
		r.qualified[decl] = r.qualify(decl, stack)
		return true
	})
}

// qualify computes the identity key of a declared type: its canonical name for
// top-level and member types, a position-tagged name for local classes.
func (r *resolver) qualify(decl *TypeDecl, stack []Node) string {
	for i := len(stack) - 1; i >= 0; i-- {
		switch s := stack[i].(type) {
		case *TypeDecl:
			return r.qualified[s] + "." + decl.Name.Name
		case *Block, *ClassBody, *SwitchCase:
			return "local:" + decl.Name.Name + "@" + strconv.Itoa(decl.Pos())
		}
	}
	if r.pkg == "" {
		return decl.Name.Name
	}
	return r.pkg + "." + decl.Name.Name
}

func (r *resolver) resolve(t *TypeRef, stack []Node) *Binding {
	if t.Wildcard {
		if t.Bound == nil {
			return &Binding{Key: "?", Name: "?"}
		}
		bound := r.resolve(t.Bound, stack)
		if bound == nil {
			return nil
		}
		kw := " extends "
		if t.Super {
			kw = " super "
		}
		return &Binding{Key: "?" + kw + bound.Key, Name: "?" + kw + bound.Name}
	}
	if len(t.Parts) == 0 {
		return nil
	}

	first := t.Parts[0].Name.Name
	var key string
	switch {
	case len(t.Parts) == 1 && (primitives[first] || first == "void"):
		key = first
	case len(t.Parts) == 1 && first == "var":
		return nil
	default:
		// a lower case first segment names a package unless a type says otherwise
		qualified := len(t.Parts) > 1 && startsLower(first)
		k, ok := r.lookup(first, t.Pos(), stack, !qualified)
		switch {
		case ok:
			key = k
		case qualified:
			key = first
		default:
			return nil
		}
	}

	var name string
	for i, part := range t.Parts {
		if i > 0 {
			key += "." + part.Name.Name
		}
		name = part.Name.Name
		if len(part.Args) > 0 || part.Diamond {
			keys := make([]string, 0, len(part.Args))
			names := make([]string, 0, len(part.Args))
			for _, a := range part.Args {
				b := r.resolve(a, stack)
				if b == nil {
					return nil
				}
				keys = append(keys, b.Key)
				names = append(names, b.Name)
			}
			key += "<" + strings.Join(keys, ",") + ">"
			name += "<" + strings.Join(names, ",") + ">"
		}
	}

	dims := strings.Repeat("[]", t.Dims)
	return &Binding{Key: key + dims, Name: name + dims}
}

// lookup resolves a simple type name visible at offset pos. With guess set,
// unknown names are assumed to live in the unit's package.
func (r *resolver) lookup(name string, pos int, stack []Node, guess bool) (string, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		switch s := stack[i].(type) {
		case *MethodDecl:
			if key, ok := typeVar(s.TypeParams, name); ok {
				return key, true
			}
		case *TypeDecl:
			if key, ok := typeVar(s.TypeParams, name); ok {
				return key, true
			}
			if key, ok := r.memberType(s.Members, name); ok {
				return key, true
			}
		case *ClassBody:
			if key, ok := r.memberType(s.Members, name); ok {
				return key, true
			}
		case *Block:
			if key, ok := r.localClass(s.Stmts, name, pos); ok {
				return key, true
			}
		case *SwitchCase:
			if key, ok := r.localClass(s.Body, name, pos); ok {
				return key, true
			}
		}
	}

	if decl, ok := r.topLevel[name]; ok {
		return r.qualified[decl], true
	}
	if q, ok := r.imports[name]; ok {
		return q, true
	}
	if r.index.Has(r.pkg, name) {
		return qualifiedName(r.pkg, name), true
	}

	var candidates []string
	for _, pkg := range r.onDemand {
		if r.index.Has(pkg, name) {
			candidates = append(candidates, qualifiedName(pkg, name))
		}
	}
	if javaLang[name] {
		candidates = append(candidates, "java.lang."+name)
	}
	switch {
	case len(candidates) == 1:
		return candidates[0], true
	case len(candidates) > 1:
		return "", false
	}

	// unknown names live in the unit's package unless a wildcard import could supply them
	if guess && len(r.onDemand) == 0 {
		return qualifiedName(r.pkg, name), true
	}
	return "", false
}

func typeVar(params []*TypeParam, name string) (string, bool) {
	for _, tp := range params {
		if tp.Name.Name == name {
			return name + "@" + strconv.Itoa(tp.Pos()), true
		}
	}
	return "", false
}

func (r *resolver) memberType(members []Decl, name string) (string, bool) {
	for _, m := range members {
		if decl, ok := m.(*TypeDecl); ok && decl.Name.Name == name {
			return r.qualified[decl], true
		}
	}
	return "", false
}

func (r *resolver) localClass(stmts []Stmt, name string, pos int) (string, bool) {
	for _, s := range stmts {
		if lc, ok := s.(*LocalClassDecl); ok && lc.Decl.Name.Name == name && lc.Pos() <= pos {
			return r.qualified[lc.Decl], true
		}
	}
	return "", false
}

func qualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
