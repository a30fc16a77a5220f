package yaml

import (
	"strings"
	"testing"
)

func TestProjectParser_Parse(t *testing.T) {
	parser := NewProjectParser()

	project, err := parser.Parse([]byte(`namespace: com.example.lunar
properties_file: secrets/key.properties
build_types:
  release:
    minify: false
    shrink_resources: false
  staging:
    minify: true
    shrink_resources: true
`), "/work/android")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if project.RootDir != "/work/android" {
		t.Errorf("RootDir = %q", project.RootDir)
	}
	if project.Namespace != "com.example.lunar" {
		t.Errorf("Namespace = %q", project.Namespace)
	}
	if project.ApplicationID != "com.example.lunar" {
		t.Errorf("ApplicationID = %q, want namespace fallback", project.ApplicationID)
	}
	if project.PropertiesFile != "secrets/key.properties" {
		t.Errorf("PropertiesFile = %q", project.PropertiesFile)
	}
	if len(project.BuildTypes) != 2 {
		t.Fatalf("BuildTypes = %v, want release and staging", project.BuildTypes)
	}

	staging := project.BuildTypes["staging"]
	if staging.Name != "staging" || !staging.MinifyEnabled || !staging.ShrinkResources {
		t.Errorf("staging = %+v", staging)
	}
	release := project.BuildTypes["release"]
	if release.MinifyEnabled || release.ShrinkResources || release.SigningConfig != nil {
		t.Errorf("release = %+v", release)
	}
}

func TestProjectParser_Parse_Defaults(t *testing.T) {
	parser := NewProjectParser()

	project, err := parser.Parse([]byte(`namespace: com.example.lunar`), "/work/android")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if project.PropertiesFile != "key.properties" {
		t.Errorf("PropertiesFile = %q, want key.properties", project.PropertiesFile)
	}
	if _, ok := project.BuildTypes["release"]; !ok {
		t.Error("release build type should exist by default")
	}
	if _, ok := project.BuildTypes["debug"]; !ok {
		t.Error("debug build type should exist by default")
	}
}

func TestProjectParser_Parse_ReleaseAlwaysPresent(t *testing.T) {
	parser := NewProjectParser()

	project, err := parser.Parse([]byte("build_types:\n  qa:\n    minify: true\n"), "/p")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, ok := project.BuildTypes["release"]; !ok {
		t.Error("release build type should be added when not declared")
	}
}

func TestProjectParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			input:   "namespace: [unterminated",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "shrink without minify",
			input:   "build_types:\n  release:\n    shrink_resources: true\n",
			wantErr: "shrink_resources requires minify",
		},
	}

	parser := NewProjectParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.input), "/p")
			if err == nil {
				t.Fatal("Parse() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
