package commands

import (
	"fundview/internal/config"
	"fundview/internal/diagnostics"
	"fundview/internal/results"
	"fundview/internal/simclient"
	"fundview/internal/viewmodel"

	"github.com/rs/zerolog/log"
)

// runtime is the shared wiring of the long-running commands.
type runtime struct {
	client   *simclient.HTTPClient
	results  *results.Store
	recorder *diagnostics.Recorder
	opts     viewmodel.Options
}

func normalizeOptions(repair bool) viewmodel.Options {
	if repair {
		return viewmodel.Options{Parity: viewmodel.ParityRepair}
	}
	return viewmodel.Options{Parity: viewmodel.ParityPassThrough}
}

// newRuntime builds the client and loads previously saved results from the cache dir.
func newRuntime(c *config.AppConfig) *runtime {
	opts := normalizeOptions(c.RepairParallelArrays)
	store := results.NewStore(opts)
	if err := store.Load(c.CacheDir); err != nil {
		log.Warn().Err(err).Str("dir", c.CacheDir).Msg("Could not load saved results")
	}
	if c.Simulation.BaseURL == "" {
		log.Warn().Msg("SIMULATION_API_URL is not set; only stored and inline documents are available")
	}
	return &runtime{
		client:   simclient.New(c.Simulation),
		results:  store,
		recorder: diagnostics.NewRecorder(log.Logger),
		opts:     opts,
	}
}

func (r *runtime) save(dir string) {
	if err := r.results.Save(dir); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to save results")
		return
	}
	log.Info().Int("count", r.results.Len()).Str("dir", dir).Msg("Results saved")
}
