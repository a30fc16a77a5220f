package entities

import "sort"

// Build type names known to the host toolchain
const (
	BuildTypeRelease = "release"
	BuildTypeDebug   = "debug"
)

// DefaultPropertiesFile is the credentials file looked up in the project root
const DefaultPropertiesFile = "key.properties"

// BuildType represents a build variant and its packaging behavior
type BuildType struct {
	Name            string
	MinifyEnabled   bool
	ShrinkResources bool
	SigningConfig   *SigningConfig // nil means the toolchain default signature applies
}

// Clone returns a copy that shares no state with the receiver
func (b *BuildType) Clone() *BuildType {
	c := *b
	if b.SigningConfig != nil {
		sc := *b.SigningConfig
		c.SigningConfig = &sc
	}
	return &c
}

// Project describes the application module being configured
type Project struct {
	RootDir        string
	Namespace      string
	ApplicationID  string
	PropertiesFile string
	BuildTypes     map[string]*BuildType
}

// NewDefaultProject returns a project with release and debug build types.
// Release disables minification and resource shrinking.
func NewDefaultProject(rootDir string) *Project {
	return &Project{
		RootDir:        rootDir,
		PropertiesFile: DefaultPropertiesFile,
		BuildTypes: map[string]*BuildType{
			BuildTypeRelease: {Name: BuildTypeRelease},
			BuildTypeDebug:   {Name: BuildTypeDebug},
		},
	}
}

// BuildConfiguration is the outcome of one configuration evaluation
type BuildConfiguration struct {
	Namespace      string
	ApplicationID  string
	SigningConfigs map[string]*SigningConfig
	BuildTypes     map[string]*BuildType
}

// Release returns the release build type
func (c *BuildConfiguration) Release() *BuildType {
	return c.BuildTypes[BuildTypeRelease]
}

// BuildTypeNames returns build type names in sorted order
func (c *BuildConfiguration) BuildTypeNames() []string {
	names := make([]string, 0, len(c.BuildTypes))
	for name := range c.BuildTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
