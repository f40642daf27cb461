package codegen

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/compiler/protogen"
)

// Generate emits one <file>.relay.go per input file that declares at least
// one service, grounded on the original implementation's
// lucat-build::client::generate and lucat-build::server::generate.
//
// Every generated client method and every generated server route is keyed
// by its own "/<package>.<Service>/<Method>" path built from the actual
// descriptor (REDESIGN FLAGS #3 and #4) — the original generator hardcodes
// "/helloworld.Greeter/SayHello" for every client method and "/" for every
// server route, a bug that survives untouched in the teacher pack's own
// generated fixtures.
//
// A service with any streaming method is rejected outright: relay's core
// pipeline is unary-only (see Body), so generating a client/server pair
// that compiles but can never be called correctly would be worse than
// failing the build.
func Generate(plugin *protogen.Plugin, opts Options) error {
	for _, file := range plugin.Files {
		if !file.Generate || len(file.Services) == 0 {
			continue
		}
		if err := generateFile(plugin, file, opts); err != nil {
			return err
		}
	}
	return nil
}

func generateFile(plugin *protogen.Plugin, file *protogen.File, opts Options) error {
	for _, svc := range file.Services {
		for _, method := range svc.Methods {
			if method.Desc.IsStreamingClient() || method.Desc.IsStreamingServer() {
				return fmt.Errorf(
					"codegen: service %s method %s is streaming; relay only generates unary clients/servers",
					svc.GoName, method.GoName,
				)
			}
		}
	}

	g := plugin.NewGeneratedFile(file.GeneratedFilenamePrefix+".relay.go", file.GoImportPath)
	g.P("// Code generated by protoc-gen-relay. DO NOT EDIT.")
	g.P("// source: ", file.Desc.Path())
	g.P()
	for _, attr := range opts.ClientModAttributes.ForMod("." + string(file.Desc.Package())) {
		g.P("// ", attr)
	}
	for _, attr := range opts.ServerModAttributes.ForMod("." + string(file.Desc.Package())) {
		g.P("// ", attr)
	}
	g.P("package ", file.GoPackageName)
	g.P()

	// QualifiedGoIdent returns "<pkg>.<GoName>" and records the import; the
	// templates append their own identifiers, so only "<pkg>" is kept.
	relayPkg := strings.TrimSuffix(g.QualifiedGoIdent(protogen.GoIdent{GoName: "relay", GoImportPath: "github.com/relayrpc/relay"}), ".relay")
	contextPkg := strings.TrimSuffix(g.QualifiedGoIdent(protogen.GoIdent{GoName: "context", GoImportPath: "context"}), ".context")

	for _, svc := range file.Services {
		fullName := "." + string(svc.Desc.FullName())
		if opts.BuildClientVal {
			for _, attr := range opts.ClientAttributes.ForStruct(fullName) {
				g.P("// ", attr)
			}
			transportPkg := strings.TrimSuffix(g.QualifiedGoIdent(protogen.GoIdent{GoName: "transport", GoImportPath: "github.com/relayrpc/relay/transport"}), ".transport")
			generateClient(g, file, svc, relayPkg, contextPkg, transportPkg)
			g.P()
		}
		if opts.BuildServerVal {
			for _, attr := range opts.ServerAttributes.ForStruct(fullName) {
				g.P("// ", attr)
			}
			generateServer(g, file, svc, relayPkg, contextPkg)
			g.P()
		}
	}

	return nil
}

func fullMethodPath(file *protogen.File, svc *protogen.Service, method *protogen.Method) string {
	pkg := string(file.Desc.Package())
	if pkg == "" {
		return fmt.Sprintf("/%s/%s", svc.Desc.Name(), method.Desc.Name())
	}
	return fmt.Sprintf("/%s.%s/%s", pkg, svc.Desc.Name(), method.Desc.Name())
}

func generateClient(g *protogen.GeneratedFile, file *protogen.File, svc *protogen.Service, relayPkg, contextPkg, transportPkg string) {
	clientName := svc.GoName + "Client"

	g.P("// ", clientName, " is a client for the ", svc.Desc.FullName(), " service.")
	g.P("type ", clientName, " struct {")
	for _, method := range svc.Methods {
		g.P(unexported(method.GoName), "Rpc *", relayPkg, ".Rpc[", method.Input.GoIdent, ", ", method.Output.GoIdent, "]")
	}
	g.P("}")
	g.P()

	g.P("// New", clientName, " builds a ", clientName, " issuing calls through caller.")
	g.P("func New", clientName, "(caller ", relayPkg, ".Caller, codec ", relayPkg, ".Codec) *", clientName, " {")
	g.P("if codec == nil {")
	g.P("codec = ", relayPkg, ".DefaultCodec")
	g.P("}")
	g.P("return &", clientName, "{")
	for _, method := range svc.Methods {
		path := fullMethodPath(file, svc, method)
		g.P(unexported(method.GoName), "Rpc: ", relayPkg, ".NewRpc[", method.Input.GoIdent, ", ", method.Output.GoIdent, "](caller, codec, ", fmt.Sprintf("%q", path), "),")
	}
	g.P("}")
	g.P("}")
	g.P()

	g.P("// Connect", clientName, " dials dst and returns a ", clientName, " that issues")
	g.P("// every call over a fresh HTTP/2 connection (", transportPkg, ".Endpoint), the")
	g.P("// convenience constructor spec.md §4.7 calls for. Callers supplying their")
	g.P("// own relay.Caller (e.g. an in-memory transport in tests) should use New", clientName, " directly.")
	g.P("func Connect", clientName, "(dst string) *", clientName, " {")
	g.P("return New", clientName, "(", transportPkg, ".NewEndpointCaller(", transportPkg, ".NewEndpoint(dst)), nil)")
	g.P("}")
	g.P()

	for _, method := range svc.Methods {
		g.P("func (c *", clientName, ") ", method.GoName, "(ctx ", contextPkg, ".Context, req *", relayPkg, ".Request[", method.Input.GoIdent, "]) (*", relayPkg, ".Response[", method.Output.GoIdent, "], error) {")
		g.P("return c.", unexported(method.GoName), "Rpc.Unary(ctx, req)")
		g.P("}")
		g.P()
	}
}

func generateServer(g *protogen.GeneratedFile, file *protogen.File, svc *protogen.Service, relayPkg, contextPkg string) {
	serverIface := svc.GoName + "Server"

	g.P("// ", serverIface, " is the interface a handler implements to serve the ", svc.Desc.FullName(), " service.")
	g.P("type ", serverIface, " interface {")
	for _, method := range svc.Methods {
		g.P(method.GoName, "(", contextPkg, ".Context, *", relayPkg, ".Request[", method.Input.GoIdent, "]) (*", relayPkg, ".Response[", method.Output.GoIdent, "], error)")
	}
	g.P("}")
	g.P()

	g.P("// Register", serverIface, " adds every ", svc.Desc.FullName(), " method to routes under its own method path.")
	g.P("func Register", serverIface, "(routes ", relayPkg, ".RouteAdder, srv ", serverIface, ", codec ", relayPkg, ".Codec) {")
	g.P("if codec == nil {")
	g.P("codec = ", relayPkg, ".DefaultCodec")
	g.P("}")
	for _, method := range svc.Methods {
		path := fullMethodPath(file, svc, method)
		g.P("routes.AddRoute(", fmt.Sprintf("%q", path), ", ", relayPkg, ".NewServerRpc[", method.Input.GoIdent, ", ", method.Output.GoIdent, "](", relayPkg, ".UnaryHandlerFunc[", method.Input.GoIdent, ", ", method.Output.GoIdent, "](srv.", method.GoName, "), codec))")
	}
	g.P("}")
}

func unexported(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
