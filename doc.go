// Package proteus provides typed, named configuration objects with three
// access patterns - permanently cached singleton, scope-stable snapshot,
// and live-reloading monitor - built on an ordered configuration pipeline
// and a composable change-notification primitive.
//
// # Architecture Overview
//
// Proteus consists of five integrated subsystems:
//  1. **Change Tokens**: single-use, composable change signals with
//     registerable callbacks (ManualChangeToken, CompositeChangeToken)
//  2. **Change Notifier**: per-name token registry driving in-process reloads
//  3. **Options Pipeline**: ordered configure -> post-configure -> validate
//     execution with name scoping and failure aggregation
//  4. **Live Monitor**: per-name cache, token re-arming, reload
//     orchestration, and listener dispatch
//  5. **Sources**: the external change-source contract plus a polling
//     file-backed reference implementation with format auto-detection
//
// # Quick Start
//
// Define an options type, register pipeline stages, and read through a
// manager:
//
//	type ServerOptions struct {
//		Host string
//		Port int
//	}
//
//	pipeline := proteus.NewPipeline[ServerOptions](nil)
//	pipeline.ConfigureAll(func(o *ServerOptions) {
//		o.Host = "localhost"
//		o.Port = 8080
//	})
//	pipeline.ValidateAll(func(name string, o *ServerOptions) proteus.ValidateResult {
//		if o.Port <= 0 {
//			return proteus.ValidateFail("port must be positive")
//		}
//		return proteus.ValidateSuccess()
//	})
//
//	manager := proteus.NewManager(pipeline)
//	opts, err := manager.Current()
//
// # Live Reload
//
// A Monitor keeps instances fresh. Wire it to a ChangeNotifier for
// in-process signals, or to any TokenSource for external ones:
//
//	notifier := proteus.NewChangeNotifier()
//	monitor := proteus.NewMonitor(pipeline, proteus.MonitorConfig{
//		Notifier: notifier,
//	})
//	defer monitor.Dispose()
//
//	reg, _ := monitor.OnChange(func(o *ServerOptions, name string) {
//		server.ApplyConfig(o)
//	})
//	defer reg.Dispose()
//
//	opts, _ := monitor.Current()        // built and cached
//	notifier.NotifyChange(proteus.DefaultName)
//	opts, _ = monitor.Current()         // rebuilt instance
//
// Tokens are single-use: firing a token never resets it, a new change
// requires a new token generation. The notifier installs the replacement
// generation before firing the previous one, so callbacks that immediately
// re-register always observe the new generation. The monitor re-arms its
// subscription after every fire, keeping each requested name observed until
// disposal.
//
// # File-Backed Options
//
// FileSource polls one configuration file (JSON or YAML), rotates a fresh
// token per detected change, and exposes the parsed document:
//
//	source, _ := proteus.NewFileSource("server.yaml", proteus.FileSourceConfig{
//		PollInterval: 2 * time.Second,
//	})
//	proteus.ConfigureFromFile(pipeline, source,
//		func(o *ServerOptions, doc map[string]interface{}) error {
//			return proteus.BindFrom(doc).
//				BindString(&o.Host, "server.host", "localhost").
//				BindInt(&o.Port, "server.port", 8080).
//				Apply()
//		})
//	source.Start()
//	defer source.Stop()
//
//	monitor := proteus.NewMonitor(pipeline, proteus.MonitorConfig{
//		Sources: []proteus.TokenSource{source},
//	})
//
// # Validation
//
// Validators never short-circuit: Create runs every matching validator and
// aggregates all failure messages into a single *ValidationError carrying
// the type identity, the instance name, and the ordered message list.
//
// # Failure Policy
//
// A reload whose rebuild fails validation leaves the cache empty for that
// name: the stale instance is evicted and no fallback is re-inserted, so
// the failure is loud and the next access retries. Listener dispatch is
// isolated per listener: a panicking listener is recovered and reported,
// and the remaining listeners in the snapshot still run.
//
// # Audit Trail
//
// Reloads, validation failures, watch starts, and disposals can be recorded
// to a buffered audit trail with tamper-detection checksums, persisted to
// JSONL or SQLite (see AuditConfig).
//
// # Concurrency
//
// All components are safe for concurrent use. Each Monitor exclusively owns
// its cache and listener list; each ChangeNotifier exclusively owns its
// token table. The only asynchronous boundary is registering a callback on
// an already-fired token, which schedules the callback on a new goroutine -
// callers cannot distinguish "registered before the fire" from "after" by
// timing alone, both paths guarantee eventual at-least-once delivery.
//
// Repository: https://github.com/agilira/proteus
package proteus
