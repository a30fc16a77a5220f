package yaml

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ochairo/signcfg/internal/domain/entities"
)

// ProjectFileName is the optional project definition looked up in the root
const ProjectFileName = "signcfg.yml"

// ProjectRepository implements repositories.ProjectRepository using a YAML file
type ProjectRepository struct {
	rootDir string
	parser  *ProjectParser
}

// NewProjectRepository creates a new YAML-based project repository
func NewProjectRepository(rootDir string) *ProjectRepository {
	return &ProjectRepository{
		rootDir: rootDir,
		parser:  NewProjectParser(),
	}
}

// GetProject loads signcfg.yml from the root, or returns defaults when it does not exist
func (r *ProjectRepository) GetProject(_ context.Context) (*entities.Project, error) {
	filePath := filepath.Join(r.rootDir, ProjectFileName)

	// Check if file exists
	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		return entities.NewDefaultProject(r.rootDir), nil
	}

	return r.parser.ParseFile(filePath, r.rootDir)
}
