package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// Registry indexes Generators by algorithm.
//
// Invariant: each algorithm is registered at most once.
type Registry struct {
	generators map[dungeon.Algorithm]Generator
	logger     *zap.Logger
}

// NewRegistry returns an empty Registry.
//
// Precondition: logger must not be nil.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{generators: make(map[dungeon.Algorithm]Generator), logger: logger}
}

// NewDefaultRegistry returns a Registry holding the packer, BSP and cave
// generators, all drawing from src.
func NewDefaultRegistry(src dice.Source, logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, g := range []Generator{NewPacker(src), NewBSP(src), NewCaves(src)} {
		// Algorithms are distinct, so Register cannot fail here.
		_ = r.Register(g)
	}
	return r
}

// Register stores g under its algorithm.
//
// Postcondition: returns error on algorithm collision.
func (r *Registry) Register(g Generator) error {
	if _, exists := r.generators[g.Algorithm()]; exists {
		return fmt.Errorf("generator.Registry: algorithm %q already registered", g.Algorithm())
	}
	r.generators[g.Algorithm()] = g
	return nil
}

// Get returns the Generator for alg.
func (r *Registry) Get(alg dungeon.Algorithm) (Generator, error) {
	g, ok := r.generators[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return g, nil
}

// Generate validates p and runs the generator registered for p.Algorithm.
func (r *Registry) Generate(ctx context.Context, p dungeon.Params, grid dungeon.Grid) ([]dungeon.Room, error) {
	g, err := r.Get(p.Algorithm)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rooms, err := g.Generate(ctx, p, grid)
	if err != nil {
		return nil, fmt.Errorf("generating %s layout: %w", p.Algorithm, err)
	}
	r.logger.Debug("layout generated",
		zap.String("algorithm", string(p.Algorithm)),
		zap.String("size", string(p.Size)),
		zap.Int("density", p.Density),
		zap.Int("rooms", len(rooms)),
	)
	return rooms, nil
}
