// Command emgc compiles a labeled sEMG feature dataset into a firmware
// artifact: it trains a bagged decision-tree forest, checks the model
// against the target's flash/RAM budget, re-encodes every tree into the
// fixed-point node layout, writes the generated C header and persists
// the trained model for later runs.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"emg-forest/internal/cfg"
	"emg-forest/internal/dataset"
	"emg-forest/internal/encode"
	"emg-forest/internal/forest"
	"emg-forest/internal/gesture"
	"emg-forest/internal/metrics"
	"emg-forest/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if c.DataPath == "" {
		log.Fatal().Msg("no dataset configured; set DATA_PATH or training.dataPath")
	}

	m := metrics.New()
	startMetricsServer(c)

	if err := run(c, m); err != nil {
		log.Fatal().Err(err).Msg("compile failed")
	}
}

func run(c cfg.Settings, m *metrics.Metrics) error {
	set, err := dataset.LoadCSV(c.DataPath)
	if err != nil {
		return err
	}
	log.Info().
		Int("samples", len(set.X)).
		Int("features", len(set.FeatureNames)).
		Str("path", c.DataPath).
		Msg("dataset loaded")

	numClasses := distinct(set.Y)
	trainCfg := forest.DefaultConfig(numClasses)
	trainCfg.Seed = c.Seed
	if c.NumTrees > 0 {
		trainCfg.NumTrees = c.NumTrees
	}
	if c.MaxDepth > 0 {
		trainCfg.MaxDepth = c.MaxDepth
	}
	if c.MinSamplesSplit > 0 {
		trainCfg.MinSamplesSplit = c.MinSamplesSplit
	}
	if c.MinSamplesLeaf > 0 {
		trainCfg.MinSamplesLeaf = c.MinSamplesLeaf
	}

	var classNames []string
	if numClasses == len(gesture.BasicGestures) {
		classNames = gesture.ClassNames()
	}

	report, err := forest.TrainWithMetrics(set.X, set.Y, set.FeatureNames, classNames, trainCfg, m)
	if err != nil {
		return err
	}

	log.Info().
		Int("flash_bytes", report.Memory.FlashBytes).
		Int("ram_bytes", report.Memory.RAMBytes).
		Int("total_nodes", report.Memory.TotalNodes).
		Float64("avg_nodes_per_tree", report.Memory.AvgNodesPerTree).
		Int("max_depth", report.Memory.MaxDepth).
		Msg("memory estimate")
	if !report.Memory.Fits(c.FlashBudget, c.RAMBudget) {
		return fmt.Errorf("model exceeds deployment budget: flash %d/%d bytes, ram %d/%d bytes",
			report.Memory.FlashBytes, c.FlashBudget, report.Memory.RAMBytes, c.RAMBudget)
	}

	encoded, err := encode.EncodeForestWithMetrics(report.Forest, nil, nil, m)
	if err != nil {
		return err
	}
	header := encode.EmitHeader(encoded, c.ModelName)
	if err := os.WriteFile(c.HeaderPath, []byte(header), 0o644); err != nil {
		return fmt.Errorf("write header %s: %w", c.HeaderPath, err)
	}
	m.HeadersEmittedInc()
	log.Info().Str("path", c.HeaderPath).Int("bytes", len(header)).Msg("header written")

	if err := storage.Save(c.ModelStorePath, c.ModelName, report); err != nil {
		return err
	}
	m.ModelsSavedInc()
	return nil
}

func startMetricsServer(c cfg.Settings) {
	if c.MetricsPort <= 0 {
		return
	}
	go func() {
		addr := fmt.Sprintf(":%d", c.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn().Err(err).Msg("metrics server stopped")
		}
	}()
}

func distinct(labels []int) int {
	seen := map[int]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	return len(seen)
}
