package genetic

import (
	"fmt"
	"time"

	"github.com/inconshreveable/log15/v3"
)

// Session holds the state of one evolutionary run: the engine, the evolution
// state and the current population. Drivers call Decide every tick,
// ReportEpisode when a unit's episode ends and EndGeneration once every unit
// has finished.
type Session struct {
	engine *Engine
	bridge *Bridge
	log    log15.Logger

	state      State
	population Population
}

// NewSession creates a session and its first random population.
func NewSession(cfg *Config, opts ...Option) (*Session, error) {
	engine, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	s := &Session{
		engine: engine,
		bridge: NewBridge(engine.cfg.Bridge),
		log:    engine.log,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset starts the run over: generation 1, initial mutate rate, no best unit
// and a new random population.
func (s *Session) Reset() error {
	cfg := s.engine.Config()
	pop, err := s.engine.NewPopulation()
	if err != nil {
		return fmt.Errorf("failed to create population: %w", err)
	}
	s.state = NewState(&cfg)
	s.population = pop
	s.log.Info("Population created", "units", len(pop), "top_units", cfg.GA.TopUnits)
	return nil
}

// Units returns the current population in index order.
func (s *Session) Units() Population {
	return s.population
}

// Unit returns the unit in the given slot.
func (s *Session) Unit(index int) (*Unit, error) {
	if index < 0 || index >= len(s.population) {
		return nil, fmt.Errorf("unit index %d out of range [0, %d)", index, len(s.population))
	}
	return s.population[index], nil
}

// State returns the current evolution state.
func (s *Session) State() State {
	return s.state
}

// Bridge returns the session's activation bridge.
func (s *Session) Bridge() *Bridge {
	return s.bridge
}

// Decide returns whether the unit in the given slot acts on this observation.
func (s *Session) Decide(index int, obs Observation) (bool, error) {
	u, err := s.Unit(index)
	if err != nil {
		return false, err
	}
	return s.bridge.Decide(u, obs)
}

// ReportEpisode records the terminal fitness and score of a unit's episode.
func (s *Session) ReportEpisode(index int, fitness float64, score int) error {
	u, err := s.Unit(index)
	if err != nil {
		return err
	}
	u.Fitness = fitness
	u.Score = score
	return nil
}

// EndGeneration evolves the population and advances to the next generation.
func (s *Session) EndGeneration() (Report, error) {
	start := time.Now()
	res, err := s.engine.Evolve(s.population, s.state)
	if err != nil {
		return Report{}, err
	}
	s.population = res.Population
	s.state = res.State
	s.state.Iteration++
	s.log.Debug("Generation finished", "generation", res.Report.Generation, "elapsed", time.Since(start))
	return res.Report, nil
}
