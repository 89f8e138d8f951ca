package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riftlabs/cinder/internal/sim"
	"github.com/riftlabs/cinder/pkg/audio"
	"github.com/riftlabs/cinder/pkg/config"
	"github.com/riftlabs/cinder/pkg/descriptor"
	"github.com/riftlabs/cinder/pkg/events"
	"github.com/riftlabs/cinder/pkg/logger"
	"github.com/riftlabs/cinder/pkg/pool"
	"github.com/riftlabs/cinder/pkg/registry"
	"github.com/riftlabs/cinder/pkg/scheduler"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "cinder",
		Short: "Cinder - pooled effect scheduling for frame-driven games",
		Long: `Cinder is the pooled-resource and effect-scheduling layer of a frame-driven
game: generic bounded pools, a typed pool registry, and a centralized effect
scheduler with budget admission control, priority tiers, distance LOD and
timed auto-release.`,
	}

	root.AddCommand(newVersionCmd(), newValidateCmd(), newSimulateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Cinder v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <descriptor-file>...",
		Short: "Validate effect descriptor files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := descriptor.NewLibrary(logger.Nop())
			if err := lib.LoadFiles(args...); err != nil {
				return err
			}
			if err := lib.Validate(); err != nil {
				return err
			}
			fmt.Printf("OK: %d descriptors\n", lib.Len())
			for _, typeID := range lib.Types() {
				d, _ := lib.Get(typeID)
				fmt.Printf("  %-24s priority=%-8s pool=%d/%d budget=%d\n",
					d.Type, d.Priority, d.Pool.Initial, d.Pool.Max, d.ParticleBudget)
			}
			return nil
		},
	}
}

func newSimulateCmd() *cobra.Command {
	var (
		configPath   string
		ticks        int
		playsPerTick int
		seed         int64
		metricsAddr  string
		enableAudio  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless scheduling simulation",
		Long: `Drives the scheduler through randomized play traffic on a fixed tick and
reports admission outcomes, budget pressure and pool occupancy. Useful for
tuning descriptor budgets before shipping them to a scene.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				if err := config.Load(configPath, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.Init(cfg.LoggerSettings()); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.Get()

			lib := descriptor.NewLibrary(log)
			if len(cfg.Descriptors) > 0 {
				if err := lib.LoadFiles(cfg.Descriptors...); err != nil {
					return err
				}
			} else {
				if err := addDemoDescriptors(lib); err != nil {
					return err
				}
			}

			bridge := audio.Bridge(audio.NopBridge{})
			if enableAudio || cfg.Audio.Enabled {
				beepBridge, err := audio.NewBeepBridge(cfg.Audio.Beep, log)
				if err != nil {
					log.Warn("audio backend unavailable, continuing silent", zap.Error(err))
				} else {
					defer beepBridge.Close()
					bridge = beepBridge
				}
			}

			pools := registry.New[scheduler.Effect](log)
			bus := events.NewBus()

			sched, err := scheduler.New(cfg.SchedulerSettings(), lib, pools, scheduler.Collaborators{
				Viewer: sim.FixedViewer{},
				Audio:  bridge,
				Bus:    bus,
				Logger: log,
			})
			if err != nil {
				return err
			}

			for _, typeID := range lib.Types() {
				d, _ := lib.Get(typeID)
				profile := sim.Profile{
					ParticleCapacity:    max(d.ParticleBudget, 1),
					Duration:            0.6,
					MaxParticleLifetime: 0.3,
				}
				if err := sched.RegisterFactory(typeID, sim.NewFactory(profile)); err != nil {
					return err
				}
			}

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						log.Warn("metrics endpoint failed", zap.Error(err))
					}
				}()
				log.Info("metrics endpoint started", zap.String("addr", metricsAddr))
			}

			runner := sim.NewRunner(sched, lib, bus, seed, log)
			dt := 1.0 / float64(cfg.Scheduler.TickRate)
			stats := runner.Run(ticks, playsPerTick, dt)

			fmt.Printf("plays:         %d\n", stats.Plays)
			fmt.Printf("admitted:      %d\n", stats.Admitted)
			for reason, count := range stats.Rejected {
				fmt.Printf("rejected/%-14s %d\n", reason+":", count)
			}
			fmt.Printf("auto-released: %d\n", stats.AutoReleased)
			fmt.Printf("peak cost:     %d / %d\n", stats.PeakCost, cfg.Scheduler.MaxBudget)
			fmt.Printf("still active:  %d (cost %d)\n", sched.GetActiveCount(), sched.GetActiveCost())
			for _, info := range pools.Debug() {
				fmt.Printf("pool %-24s active=%d available=%d total=%d\n",
					info.Name, info.Active, info.Available, info.Total)
			}

			sched.ClearAll()
			pools.Clear()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file")
	cmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks to simulate")
	cmd.Flags().IntVar(&playsPerTick, "plays-per-tick", 3, "play requests per tick")
	cmd.Flags().Int64Var(&seed, "seed", 1, "traffic randomization seed")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&enableAudio, "audio", false, "enable the beep audio bridge")

	return cmd
}

// addDemoDescriptors installs a small built-in effect catalog so simulate
// works out of the box.
func addDemoDescriptors(lib *descriptor.Library) error {
	demo := []descriptor.Descriptor{
		{
			Type:           "spark_hit",
			Priority:       descriptor.PriorityLow,
			Pool:           pool.Capacity{Initial: 16, Max: 32},
			MaxDistance:    40,
			ParticleBudget: 20,
			RateLimit:      &descriptor.RateLimit{PerSecond: 30, Burst: 10},
		},
		{
			Type:           "explosion_small",
			Priority:       descriptor.PriorityMedium,
			Pool:           pool.Capacity{Initial: 8, Max: 16, Expandable: true},
			MaxDistance:    60,
			ParticleBudget: 80,
			Audio:          &descriptor.AudioSync{Clip: "impact", Volume: 0.8},
		},
		{
			Type:           "explosion_large",
			Priority:       descriptor.PriorityHigh,
			Pool:           pool.Capacity{Initial: 4, Max: 8},
			ParticleBudget: 200,
			Audio:          &descriptor.AudioSync{Clip: "impact", Volume: 1.0},
			Phases: []descriptor.Phase{
				{Type: "explosion_small", Delay: 0.2},
				{Type: "spark_hit", Delay: 0.35},
			},
		},
		{
			Type:           "level_up",
			Priority:       descriptor.PriorityCritical,
			Pool:           pool.Capacity{Initial: 2, Max: 4},
			ParticleBudget: 120,
			Audio:          &descriptor.AudioSync{Clip: "chime", Volume: 1.0, Delay: 0.1},
		},
	}
	for _, d := range demo {
		if err := lib.Add(d); err != nil {
			return err
		}
	}
	return nil
}
