package genetic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, seed int64, maxUnits, topUnits int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.GA.MaxUnits = maxUnits
	cfg.GA.TopUnits = topUnits
	e, err := NewEngine(cfg, WithRand(rand.New(rand.NewSource(seed))))
	require.NoError(t, err)
	return e
}

func snapshotParams(p Population) map[float64]bool {
	params := map[float64]bool{}
	for _, u := range p {
		s := u.Network.Serialize()
		for _, b := range s.Biases() {
			params[b] = true
		}
		for _, w := range s.Weights() {
			params[w] = true
		}
	}
	return params
}

func TestEvolveScenario(t *testing.T) {
	e := newTestEngine(t, 1, 10, 4)
	pop := newTestPopulation(t, 2, []float64{5, -1, 3, 0, 2, -3, 4, 1, -2, 0})
	before := append(Population(nil), pop...)

	st := State{Iteration: 1, MutateRate: 0.2}
	res, err := e.Evolve(pop, st)
	require.NoError(t, err)

	next := res.Population
	require.Len(t, next, 10)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, indices(next))

	// Winners are carried over untouched; every other slot is a new unit.
	for i, u := range next {
		switch i {
		case 0, 2, 4, 6:
			assert.Same(t, before[i], u, "winner %d carried over", i)
			assert.True(t, u.IsWinner)
			assert.Equal(t, before[i].Fitness, u.Fitness)
		default:
			assert.NotSame(t, before[i], u, "slot %d rebuilt", i)
			assert.False(t, u.IsWinner)
			assert.Zero(t, u.Fitness)
			assert.Zero(t, u.Score)
		}
	}

	assert.Equal(t, []WinnerSummary{
		{Index: 0, Fitness: 5, Score: 5},
		{Index: 6, Fitness: 4, Score: 4},
		{Index: 2, Fitness: 3, Score: 3},
		{Index: 4, Fitness: 2, Score: 2},
	}, res.Report.Winners)
	assert.False(t, res.Report.Reset)
	assert.Equal(t, 0.2, res.State.MutateRate)
	assert.Equal(t, 1, res.State.BestPopulation)
	assert.Equal(t, 5.0, res.State.BestFitness)
	assert.Equal(t, 5, res.State.BestScore)
	assert.Equal(t, 5.0, res.Report.MaxFitness)
	assert.Equal(t, -3.0, res.Report.MinFitness)
	assert.InDelta(t, 0.9, res.Report.MeanFitness, 1e-9)

	// Caller's slice keeps its order.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, indices(pop))
}

func TestEvolveLowersMutateRate(t *testing.T) {
	e := newTestEngine(t, 3, 10, 4)
	pop := newTestPopulation(t, 4, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	res, err := e.Evolve(pop, NewState(DefaultConfig()))
	require.NoError(t, err)
	assert.False(t, res.Report.Reset)
	assert.Equal(t, 0.2, res.State.MutateRate)

	// The ratchet never goes back up, even for a bad generation.
	for _, u := range res.Population {
		u.Fitness = -10
	}
	res, err = e.Evolve(res.Population, res.State)
	require.NoError(t, err)
	assert.False(t, res.Report.Reset)
	assert.Equal(t, 0.2, res.State.MutateRate)
}

func TestEvolveDegenerateReset(t *testing.T) {
	e := newTestEngine(t, 5, 10, 4)
	pop := newTestPopulation(t, 6, []float64{-1, -5, -2, -8, -3, -1, -4, -9, -2, -7})
	old := snapshotParams(pop)

	st := NewState(DefaultConfig())
	res, err := e.Evolve(pop, st)
	require.NoError(t, err)

	assert.True(t, res.Report.Reset)
	assert.Equal(t, 1.0, res.State.MutateRate)
	assert.Equal(t, 0.0, res.State.BestFitness)
	assert.Equal(t, 0, res.State.BestPopulation)

	require.Len(t, res.Population, 10)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, indices(res.Population))
	for i, u := range res.Population {
		assert.NotSame(t, pop[i], u)
		assert.False(t, u.IsWinner)
		assert.Zero(t, u.Fitness)
	}
	for p := range snapshotParams(res.Population) {
		assert.False(t, old[p], "parameter %v survived the reset", p)
	}
}

func TestEvolveZeroFitnessIsViable(t *testing.T) {
	e := newTestEngine(t, 7, 6, 2)
	pop := newTestPopulation(t, 8, []float64{0, -1, -1, -1, -1, -1})

	res, err := e.Evolve(pop, NewState(DefaultConfig()))
	require.NoError(t, err)
	assert.False(t, res.Report.Reset)
	assert.Equal(t, 0.2, res.State.MutateRate)
	// Equal to the initial record is not an improvement.
	assert.Equal(t, 0, res.State.BestPopulation)
}

func TestEvolveTopologyAndChampionAcrossGenerations(t *testing.T) {
	e := newTestEngine(t, 9, 10, 4)
	rng := rand.New(rand.NewSource(10))
	pop, err := e.NewPopulation()
	require.NoError(t, err)
	st := NewState(DefaultConfig())

	best := st.BestFitness
	for gen := 0; gen < 30; gen++ {
		for _, u := range pop {
			u.Fitness = rng.Float64()*200 - 20
			u.Score = rng.Intn(10)
		}
		res, err := e.Evolve(pop, st)
		require.NoError(t, err)

		for i, u := range res.Population {
			require.Equal(t, i, u.Index)
			require.Equal(t, 2, u.Network.NumInputs())
			require.Equal(t, 9, u.Network.NumNeurons())
			require.Equal(t, 18, u.Network.NumConnections())
		}
		assert.GreaterOrEqual(t, res.State.BestFitness, best)
		best = res.State.BestFitness

		pop, st = res.Population, res.State
		st.Iteration++
	}
}

func TestEvolveIsReproducible(t *testing.T) {
	run := func() []float64 {
		e := newTestEngine(t, 11, 8, 3)
		pop, err := e.NewPopulation()
		require.NoError(t, err)
		st := NewState(DefaultConfig())
		for gen := 0; gen < 5; gen++ {
			for i, u := range pop {
				u.Fitness = float64((i*7 + gen*3) % 11)
			}
			res, err := e.Evolve(pop, st)
			require.NoError(t, err)
			pop, st = res.Population, res.State
			st.Iteration++
		}
		var out []float64
		for _, u := range pop {
			out = append(out, u.Network.Serialize().Weights()...)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestEvolveSingleWinner(t *testing.T) {
	e := newTestEngine(t, 13, 5, 1)
	pop := newTestPopulation(t, 14, []float64{1, 2, 3, 4, 5})

	res, err := e.Evolve(pop, State{Iteration: 1, MutateRate: 0.2})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, indices(res.Population.Winners()))
}

func TestEvolveAllWinners(t *testing.T) {
	e := newTestEngine(t, 15, 4, 9)
	assert.Equal(t, 4, e.Config().GA.TopUnits)

	pop := newTestPopulation(t, 16, []float64{1, 2, 3, 4})
	before := append(Population(nil), pop...)
	res, err := e.Evolve(pop, State{Iteration: 1, MutateRate: 0.2})
	require.NoError(t, err)
	for i := range before {
		assert.Same(t, before[i], res.Population[i])
	}
}

func TestEvolveRejectsWrongSize(t *testing.T) {
	e := newTestEngine(t, 17, 10, 4)
	pop := newTestPopulation(t, 18, []float64{1, 2, 3})
	_, err := e.Evolve(pop, NewState(DefaultConfig()))
	assert.Error(t, err)
}

func TestNewEngineRequiresConfig(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.GA.MaxUnits = 0
	_, err = NewEngine(cfg)
	assert.Error(t, err)
}
