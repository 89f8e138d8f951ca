// Package cinder provides the pooled-resource and effect-scheduling layer
// of a frame-driven game: generic bounded object pools with stale-safe
// handles, a typed pool registry for data-driven content, and a centralized
// effect scheduler performing priority-based admission control over a shared
// performance budget with distance culling and timed automatic reclamation.
//
// The scheduling core is single-threaded by design: game code calls Play
// and Stop from its update loop and advances time with Update(dt). Deferred
// work (auto-release, delayed audio, multi-phase sequences) runs on an
// internal frame-driven timer queue, never on goroutines, so runs are
// deterministic and replayable.
//
// # Quick Start
//
// Load descriptors, register a factory per effect type and drive the tick:
//
//	import (
//	    "github.com/riftlabs/cinder/pkg/descriptor"
//	    "github.com/riftlabs/cinder/pkg/registry"
//	    "github.com/riftlabs/cinder/pkg/scheduler"
//	)
//
//	lib := descriptor.NewLibrary(log)
//	if err := lib.LoadFile("effects/combat.yaml"); err != nil {
//	    return err
//	}
//
//	pools := registry.New[scheduler.Effect](log)
//	sched, err := scheduler.New(scheduler.Config{MaxBudget: 2000, ReleaseBuffer: 0.1},
//	    lib, pools, scheduler.Collaborators{Viewer: camera, Logger: log})
//	if err != nil {
//	    return err
//	}
//	if err := sched.RegisterFactory("explosion_small", explosionFactory); err != nil {
//	    return err
//	}
//
//	// In the game loop:
//	sched.Play("explosion_small", pool.Transform{Position: hitPos})
//	sched.Update(dt)
//
// # Key Packages
//
//	pkg/pool        - Generic bounded pools with generation-checked handles
//	pkg/registry    - String-keyed pool registration for data-driven content
//	pkg/descriptor  - Immutable effect catalog loaded from YAML/JSON
//	pkg/scheduler   - Admission control, budget, LOD and auto-release
//	pkg/audio       - Audio bridge with a beep-backed tone synthesizer
//	pkg/events      - Pub/sub channel for admission and lifecycle events
//	pkg/config      - Runtime configuration with env substitution
//	pkg/metrics     - Prometheus collectors for budget and pool occupancy
//
// The cinder command in cmd/cinder validates descriptor files and runs
// headless scheduling simulations for tuning budgets.
package cinder
