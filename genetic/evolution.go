package genetic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/inconshreveable/log15/v3"

	"github.com/baldhumanity/neuroflap/genetic/nn"
)

// State is the evolution context carried from one generation to the next.
// Engine.Evolve takes a State and returns the updated one; nothing else
// holds it.
type State struct {
	Iteration      int     // Current generation number, starting at 1.
	MutateRate     float64 // Probability that a gene is perturbed.
	BestPopulation int     // Generation in which the best unit so far was born.
	BestFitness    float64 // Fitness of the best unit so far.
	BestScore      int     // Score of the best unit so far.
}

// NewState returns the state of a run that has not evolved yet.
func NewState(cfg *Config) State {
	return State{
		Iteration:  1,
		MutateRate: cfg.GA.InitialMutateRate,
	}
}

// WinnerSummary describes one parent selected during a transition.
type WinnerSummary struct {
	Index   int     `json:"index"`
	Fitness float64 `json:"fitness"`
	Score   int     `json:"score"`
}

// Report summarizes one generation transition. Fitness statistics describe the
// generation that just ended.
type Report struct {
	Generation     int             `json:"generation"`
	Winners        []WinnerSummary `json:"winners"`
	MeanFitness    float64         `json:"mean_fitness"`
	MaxFitness     float64         `json:"max_fitness"`
	MinFitness     float64         `json:"min_fitness"`
	Reset          bool            `json:"reset"`
	MutateRate     float64         `json:"mutate_rate"`
	BestPopulation int             `json:"best_population"`
	BestFitness    float64         `json:"best_fitness"`
	BestScore      int             `json:"best_score"`
}

// Result is the outcome of Engine.Evolve.
type Result struct {
	Population Population
	State      State
	Report     Report
}

// Option configures an Engine or Session.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	logger log15.Logger
}

// WithRand routes every random draw through rng. Two engines built with
// identically seeded sources produce identical generations.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithLogger sets the logger used for generation progress.
func WithLogger(logger log15.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = log15.New()
		o.logger.SetHandler(log15.DiscardHandler())
	}
	o.logger = o.logger.New("module", "genetic")
	return o
}

// Engine turns the fitness of one generation into the units of the next.
// It is not safe for concurrent use.
type Engine struct {
	cfg Config
	rng *rand.Rand
	log log15.Logger
}

// NewEngine creates an engine for the given configuration. TopUnits larger
// than MaxUnits is clamped.
func NewEngine(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Engine{cfg: c, rng: o.rng, log: o.logger}, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// NewPopulation creates a fresh random population of MaxUnits units.
func (e *Engine) NewPopulation() (Population, error) {
	return NewPopulation(e.rng, e.cfg.Network.Layout(), e.cfg.GA.MaxUnits)
}

// Evolve performs one generation transition:
//
//  1. Select the TopUnits fittest units as winners.
//  2. If the mutate rate is still at its initial value and even the best unit
//     has negative fitness, discard everything and start from a fresh random
//     population. Otherwise lower the mutate rate to its steady value.
//  3. Replace every non-winner slot with an offspring: the first from the two
//     best winners, the middle ones from two random winners, the last two as
//     clones of a random winner. Every offspring is mutated.
//  4. Record the best winner if it beats the best fitness so far.
//  5. Restore index order.
//
// The caller advances State.Iteration afterwards.
func (e *Engine) Evolve(pop Population, st State) (Result, error) {
	maxUnits, topUnits := e.cfg.GA.MaxUnits, e.cfg.GA.TopUnits
	if len(pop) != maxUnits {
		return Result{}, fmt.Errorf("population has %d units, expected %d", len(pop), maxUnits)
	}

	next := make(Population, len(pop))
	copy(next, pop)
	fitnesses := next.Fitnesses()

	winners := Select(next, topUnits)
	best := winners[0]

	reset := false
	if st.MutateRate == e.cfg.GA.InitialMutateRate && best.Fitness < 0 {
		e.log.Warn("No unit reached the first milestone, re-seeding population",
			"generation", st.Iteration, "best_fitness", best.Fitness)
		fresh, err := e.NewPopulation()
		if err != nil {
			return Result{}, fmt.Errorf("failed to re-seed population in generation %d: %w", st.Iteration, err)
		}
		next = fresh
		reset = true
	} else {
		st.MutateRate = e.cfg.GA.SteadyMutateRate
		if err := e.repopulate(next, winners, st.MutateRate); err != nil {
			return Result{}, fmt.Errorf("reproduction failed in generation %d: %w", st.Iteration, err)
		}
	}

	if best.Fitness > st.BestFitness {
		st.BestPopulation = st.Iteration
		st.BestFitness = best.Fitness
		st.BestScore = best.Score
		e.log.Info("New best unit", "generation", st.Iteration, "index", best.Index,
			"fitness", best.Fitness, "score", best.Score)
	}

	next.SortByIndex()

	report := Report{
		Generation:     st.Iteration,
		Winners:        make([]WinnerSummary, len(winners)),
		MeanFitness:    Mean(fitnesses),
		MaxFitness:     MaxFloat(fitnesses),
		MinFitness:     MinFloat(fitnesses),
		Reset:          reset,
		MutateRate:     st.MutateRate,
		BestPopulation: st.BestPopulation,
		BestFitness:    st.BestFitness,
		BestScore:      st.BestScore,
	}
	for i, w := range winners {
		report.Winners[i] = WinnerSummary{Index: w.Index, Fitness: w.Fitness, Score: w.Score}
	}

	e.log.Info("Generation evolved", "generation", st.Iteration, "best", report.MaxFitness,
		"mean", report.MeanFitness, "worst", report.MinFitness, "mutate_rate", st.MutateRate, "reset", reset)

	return Result{Population: next, State: st, Report: report}, nil
}

// repopulate fills slots TopUnits..MaxUnits-1 of a fitness-ordered population
// with mutated offspring of the winners.
func (e *Engine) repopulate(pop Population, winners []*Unit, mutateRate float64) error {
	maxUnits, topUnits := len(pop), len(winners)

	for i := topUnits; i < maxUnits; i++ {
		var offspring nn.Snapshot
		var err error

		switch {
		case i == topUnits:
			// The two best winners. A single winner is paired with itself.
			second := winners[0]
			if len(winners) > 1 {
				second = winners[1]
			}
			offspring, err = Crossover(e.rng, winners[0].Network.Serialize(), second.Network.Serialize())
		case i < maxUnits-2:
			parentA := pickRandom(e.rng, winners)
			parentB := pickRandom(e.rng, winners)
			offspring, err = Crossover(e.rng, parentA.Network.Serialize(), parentB.Network.Serialize())
		default:
			offspring = pickRandom(e.rng, winners).Network.Serialize()
		}
		if err != nil {
			return fmt.Errorf("offspring for slot %d: %w", i, err)
		}

		offspring = Mutate(e.rng, offspring, mutateRate)

		net, err := nn.Deserialize(offspring)
		if err != nil {
			return fmt.Errorf("offspring for slot %d: %w", i, err)
		}
		pop[i] = NewUnit(pop[i].Index, net)
	}
	return nil
}
