package codegen

import "testing"

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	if !o.BuildClientVal || !o.BuildServerVal {
		t.Fatal("NewOptions should default to building both client and server")
	}
	if o.ProtoPath != "super" {
		t.Errorf("ProtoPath default = %q, want %q", o.ProtoPath, "super")
	}
	if !o.EmitPackageVal || !o.FormatVal {
		t.Fatal("NewOptions should default EmitPackageVal and FormatVal true")
	}
	if o.CompileWellKnownTypesVal {
		t.Fatal("NewOptions should default CompileWellKnownTypesVal false")
	}
}

func TestOptionsBuilderChaining(t *testing.T) {
	o := NewOptions().
		BuildClient(false).
		BuildServer(true).
		OutDir("/tmp/out").
		WithExternPath(".google.protobuf", "google.golang.org/protobuf/types/known/structpb").
		WithServerAttribute("echo.Echo", "//go:build !noserver").
		WithClientModAttribute(".", "// generated client module")

	if o.BuildClientVal {
		t.Error("BuildClient(false) did not take effect")
	}
	if !o.BuildServerVal {
		t.Error("BuildServer(true) did not take effect")
	}
	if o.OutDirVal != "/tmp/out" {
		t.Errorf("OutDirVal = %q, want /tmp/out", o.OutDirVal)
	}
	if got := o.ExternPath[".google.protobuf"]; got != "google.golang.org/protobuf/types/known/structpb" {
		t.Errorf("ExternPath lookup = %q", got)
	}
	if attrs := o.ServerAttributes.ForStruct("echo.Echo"); len(attrs) != 1 {
		t.Errorf("ServerAttributes.ForStruct = %v, want one match", attrs)
	}
	if attrs := o.ClientModAttributes.ForMod("echo"); len(attrs) != 1 {
		t.Errorf("ClientModAttributes.ForMod = %v, want one match", attrs)
	}
}

func TestAttributesMatchAllAccumulates(t *testing.T) {
	var a Attributes
	a.PushStruct("echo.Echo", "// first")
	a.PushStruct(".", "// everyone")
	a.PushStruct("other.Service", "// unrelated")

	got := a.ForStruct("echo.Echo")
	if len(got) != 2 {
		t.Fatalf("ForStruct returned %d attrs, want 2: %v", len(got), got)
	}
}
