// Command protoc-gen-relay is a protoc plugin that generates relay client
// and server code for the services declared in its input proto files.
//
// Grounded on the standard shape every Go protoc plugin shares
// (protoc-gen-go, protoc-gen-go-grpc, protoc-gen-connect-go all read a
// CodeGeneratorRequest from stdin via protogen.Options.Run and write a
// CodeGeneratorResponse to stdout); none of the retrieved example repos
// ship a protoc plugin of their own, so this file follows the ecosystem
// convention rather than a specific pack file.
package main

import (
	"flag"

	"google.golang.org/protobuf/compiler/protogen"

	"github.com/relayrpc/relay/codegen"
)

func main() {
	var flags flag.FlagSet
	protoPath := flags.String("proto_path", "super", "module-relative import path for generated request/response types")
	buildClient := flags.Bool("build_client", true, "emit the generated client module")
	buildServer := flags.Bool("build_server", true, "emit the generated server module")
	emitPackage := flags.Bool("emit_package", true, "kept for API parity; see codegen.Options.EmitPackageVal")
	compileWKT := flags.Bool("compile_well_known_types", false, "kept for API parity; see codegen.Options.CompileWellKnownTypesVal")

	protogen.Options{ParamFunc: flags.Set}.Run(func(gen *protogen.Plugin) error {
		opts := codegen.NewOptions().
			BuildClient(*buildClient).
			BuildServer(*buildServer).
			EmitPackage(*emitPackage).
			CompileWellKnownTypes(*compileWKT)
		opts.ProtoPath = *protoPath
		return codegen.Generate(gen, opts)
	})
}
