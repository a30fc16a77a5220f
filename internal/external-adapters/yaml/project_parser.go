// Package yaml provides YAML-based project definition parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"

	"github.com/ochairo/signcfg/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlProject represents the raw YAML structure of signcfg.yml
type yamlProject struct {
	Namespace      string                   `yaml:"namespace"`
	ApplicationID  string                   `yaml:"application_id"`
	PropertiesFile string                   `yaml:"properties_file"`
	BuildTypes     map[string]yamlBuildType `yaml:"build_types"`
}

type yamlBuildType struct {
	Minify          bool `yaml:"minify"`
	ShrinkResources bool `yaml:"shrink_resources"`
}

// ProjectParser parses YAML project definition files
type ProjectParser struct{}

// NewProjectParser creates a new YAML parser
func NewProjectParser() *ProjectParser {
	return &ProjectParser{}
}

// ParseFile parses a YAML project file into a Project entity
func (p *ProjectParser) ParseFile(filePath, rootDir string) (*entities.Project, error) {
	//nolint:gosec // G304: filePath is the project definition inside the project root
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data, rootDir)
}

// Parse parses YAML bytes into a Project entity.
// Unset values take the defaults of entities.NewDefaultProject.
func (p *ProjectParser) Parse(data []byte, rootDir string) (*entities.Project, error) {
	var yamlDef yamlProject
	if err := yaml.Unmarshal(data, &yamlDef); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	project := entities.NewDefaultProject(rootDir)
	project.Namespace = yamlDef.Namespace
	project.ApplicationID = yamlDef.ApplicationID
	if project.ApplicationID == "" {
		project.ApplicationID = yamlDef.Namespace
	}
	if yamlDef.PropertiesFile != "" {
		project.PropertiesFile = yamlDef.PropertiesFile
	}

	if len(yamlDef.BuildTypes) > 0 {
		project.BuildTypes = convertBuildTypes(yamlDef.BuildTypes)
	}
	if _, ok := project.BuildTypes[entities.BuildTypeRelease]; !ok {
		project.BuildTypes[entities.BuildTypeRelease] = &entities.BuildType{Name: entities.BuildTypeRelease}
	}

	// Validate build types
	for name, bt := range project.BuildTypes {
		if bt.ShrinkResources && !bt.MinifyEnabled {
			return nil, fmt.Errorf("build type %s: shrink_resources requires minify", name)
		}
	}

	return project, nil
}

func convertBuildTypes(ybts map[string]yamlBuildType) map[string]*entities.BuildType {
	buildTypes := make(map[string]*entities.BuildType, len(ybts))
	for name, ybt := range ybts {
		buildTypes[name] = &entities.BuildType{
			Name:            name,
			MinifyEnabled:   ybt.Minify,
			ShrinkResources: ybt.ShrinkResources,
		}
	}
	return buildTypes
}
