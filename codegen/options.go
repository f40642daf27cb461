package codegen

// Attributes collects extra generated-code annotations keyed by a
// MatchName pattern, applied to whichever modules or service structs the
// pattern matches. Grounded on the original implementation's Attributes
// type (push_mod/push_struct/for_mod/for_struct), with syn::Attribute
// token trees replaced by plain strings: Go has no attribute-annotation
// syntax, so the only thing worth attaching this way is extra doc-comment
// lines or build-tag comments above a generated declaration.
type Attributes struct {
	module    []patternAttr
	structure []patternAttr
}

type patternAttr struct {
	pattern string
	attr    string
}

// PushMod registers attr to be emitted above any generated file-level
// declaration whose package path matches pattern.
func (a *Attributes) PushMod(pattern, attr string) {
	a.module = append(a.module, patternAttr{pattern, attr})
}

// PushStruct registers attr to be emitted above any generated service
// struct whose fully-qualified name matches pattern.
func (a *Attributes) PushStruct(pattern, attr string) {
	a.structure = append(a.structure, patternAttr{pattern, attr})
}

// ForMod returns every attr whose pattern matches name.
func (a *Attributes) ForMod(name string) []string {
	return matchAll(a.module, name)
}

// ForStruct returns every attr whose pattern matches name.
func (a *Attributes) ForStruct(name string) []string {
	return matchAll(a.structure, name)
}

func matchAll(attrs []patternAttr, name string) []string {
	var out []string
	for _, pa := range attrs {
		if MatchName(pa.pattern, name) {
			out = append(out, pa.attr)
		}
	}
	return out
}

// Options configures a single protoc-gen-relay invocation, covering the
// same recognized build surface as the original implementation's fluent
// Builder (spec.md §6.4): which of the client/server modules to emit,
// where to write them, and what extra attributes/doc-comments to inject
// above generated declarations. Construct with NewOptions and chain the
// With* methods, mirroring the teacher's own CallOption/CallInterceptor
// builder shape (client.go) and the original's lucat_build::Builder —
// no external config library is warranted for a handful of plugin flags
// (see DESIGN.md).
type Options struct {
	// BuildClientVal and BuildServerVal gate whether generateFile emits
	// the client module, the server module, or both (both default true).
	BuildClientVal bool
	BuildServerVal bool

	// OutDirVal is kept for API parity with the original's out_dir
	// option; protoc-gen-relay itself never writes files directly (protoc
	// always decides output location via protoc-gen-relay's
	// CodeGeneratorResponse), so this is only surfaced for callers driving
	// Generate outside of a protoc invocation.
	OutDirVal string

	// FileDescriptorSetPathVal, if set, names a path protoc-gen-relay's
	// caller should also write the raw FileDescriptorSet to (outside of
	// Generate itself — protogen.Plugin already receives the descriptor
	// set on stdin, so this field exists purely for API parity with
	// spec.md §6.4 rather than driving new behavior here).
	FileDescriptorSetPathVal string

	// ProtoPath is kept for API parity with the original implementation's
	// proto_path option (a module-relative import path for generated
	// request/response types); Go's generated code always refers to
	// sibling types by package-qualified name; protoc-gen-go already
	// resolves the well-known types and cross-file imports protoc-gen-go
	// needs. Generate does not read ProtoPath.
	ProtoPath string

	// ExternPath maps a proto package prefix to a Go import path, for
	// referencing message types defined outside the file set being
	// compiled (e.g. types already generated by a separate protoc-gen-go
	// invocation). The mapping is recorded only: Generate does not read it,
	// and message types are always referenced by the import path protogen
	// resolves for them.
	ExternPath map[string]string

	// FieldAttributes and TypeAttributes hold field_attribute/
	// type_attribute patterns (spec.md §6.4). They are recorded only:
	// relay's generator emits no message fields or types, and Generate
	// does not read these two sets.
	FieldAttributes Attributes
	TypeAttributes  Attributes

	// ServerAttributes/ServerModAttributes and ClientAttributes/
	// ClientModAttributes hold server_attribute/server_mod_attribute/
	// client_attribute/client_mod_attribute patterns, injected above the
	// generated <S>Server interface / its enclosing module and the
	// generated <S>Client struct / its enclosing module, respectively.
	ServerAttributes    Attributes
	ServerModAttributes Attributes
	ClientAttributes    Attributes
	ClientModAttributes Attributes

	// EmitPackageVal is kept for API parity with emit_package; a
	// generated Go file always carries a package clause (unlike the
	// original's optional module-nesting), so this has no additional
	// effect here — a resolved Open Question, see DESIGN.md.
	EmitPackageVal bool

	// CompileWellKnownTypesVal is kept for API parity; in Go,
	// protoc-gen-go itself decides whether .google.protobuf.* types are
	// compiled based on the protoc command line, so this field has no
	// additional effect in relay's generator — also a resolved Open
	// Question, see DESIGN.md.
	CompileWellKnownTypesVal bool

	// ProtocArgsVal holds protoc_arg entries for API parity; protoc
	// arguments are consumed by the protoc invocation itself, not by the
	// plugin binary, so these are recorded but not acted on here.
	ProtocArgsVal []string

	// FormatVal is kept for API parity with format; protogen's
	// GeneratedFile already runs emitted Go source through go/format
	// internally, so there's no separate formatting step to gate here.
	FormatVal bool
}

// NewOptions returns an Options with the same defaults as the original
// implementation's Builder::new: both client and server modules enabled,
// package emission and formatting on, well-known types left external.
func NewOptions() Options {
	return Options{
		BuildClientVal: true,
		BuildServerVal: true,
		ProtoPath:      "super",
		EmitPackageVal: true,
		FormatVal:      true,
	}
}

func (o Options) BuildClient(v bool) Options                { o.BuildClientVal = v; return o }
func (o Options) BuildServer(v bool) Options                 { o.BuildServerVal = v; return o }
func (o Options) OutDir(dir string) Options                  { o.OutDirVal = dir; return o }
func (o Options) FileDescriptorSetPath(path string) Options  { o.FileDescriptorSetPathVal = path; return o }
func (o Options) EmitPackage(v bool) Options                 { o.EmitPackageVal = v; return o }
func (o Options) CompileWellKnownTypes(v bool) Options       { o.CompileWellKnownTypesVal = v; return o }
func (o Options) Format(v bool) Options                      { o.FormatVal = v; return o }

// WithExternPath registers a proto-package-prefix → Go-import-path
// mapping, chainable like the rest of the builder.
func (o Options) WithExternPath(protoPath, targetPath string) Options {
	if o.ExternPath == nil {
		o.ExternPath = make(map[string]string)
	}
	o.ExternPath[protoPath] = targetPath
	return o
}

// WithProtocArg appends one protoc_arg entry.
func (o Options) WithProtocArg(arg string) Options {
	o.ProtocArgsVal = append(o.ProtocArgsVal, arg)
	return o
}

func (o Options) WithFieldAttribute(pattern, attr string) Options {
	o.FieldAttributes.PushStruct(pattern, attr)
	return o
}

func (o Options) WithTypeAttribute(pattern, attr string) Options {
	o.TypeAttributes.PushStruct(pattern, attr)
	return o
}

func (o Options) WithServerAttribute(pattern, attr string) Options {
	o.ServerAttributes.PushStruct(pattern, attr)
	return o
}

func (o Options) WithServerModAttribute(pattern, attr string) Options {
	o.ServerModAttributes.PushMod(pattern, attr)
	return o
}

func (o Options) WithClientAttribute(pattern, attr string) Options {
	o.ClientAttributes.PushStruct(pattern, attr)
	return o
}

func (o Options) WithClientModAttribute(pattern, attr string) Options {
	o.ClientModAttributes.PushMod(pattern, attr)
	return o
}
