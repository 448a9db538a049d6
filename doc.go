// Package neuroflap evolves small neural-network controllers for a
// flappy-bird style game with a fixed-topology genetic algorithm.
//
// The algorithm lives in package genetic and the perceptron it evolves in
// package genetic/nn. A population of units, each owning one network, plays
// one episode per generation. The game reports every unit's terminal fitness
// and score, then the population is evolved: the best units survive
// unchanged and the rest are rebuilt by single-point bias crossover and
// multiplicative mutation.
//
// Basic usage:
//
//	// Load configuration
//	config, err := genetic.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a session and its first population
//	session, err := genetic.NewSession(config)
//	if err != nil {
//		log.Fatalf("Error creating session: %v", err)
//	}
//
//	// Play one generation
//	for i := range session.Units() {
//		act, err := session.Decide(i, genetic.Observation{TargetDeltaX: dx, TargetDeltaY: dy})
//		...
//		session.ReportEpisode(i, fitness, score)
//	}
//	report, err := session.EndGeneration()
//
// A complete headless game driving the algorithm is in examples/flappy.
package neuroflap
