package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"solution-gateway/solution/domain"
)

// FileIdentitySource lê identidades de um arquivo texto, uma por linha.
//
// Sem cache e sem watch: o arquivo é relido em toda chamada.
type FileIdentitySource struct {
	Path string
}

// NewFileIdentitySource resolve caminhos relativos a partir do diretório de
// trabalho do processo.
func NewFileIdentitySource(path string) *FileIdentitySource {
	return &FileIdentitySource{Path: path}
}

func (s *FileIdentitySource) Load(ctx context.Context) (domain.IdentityPool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	pool := domain.ParseIdentityPool(string(data))
	if len(pool) == 0 {
		return nil, &domain.EmptyPoolError{Source: filepath.Base(s.Path)}
	}
	return pool, nil
}
