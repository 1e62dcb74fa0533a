package generator

import "github.com/toyz/visitgen/internal/models"

// CodeGenerator turns a collected symbol map into source artifacts
type CodeGenerator interface {
	Generate(symbols *models.SymbolMap) ([]models.Artifact, error)
}
