// Package taperuntime provides a Go interpreter for the eight-instruction
// tape language (+ - < > . , [ ]).
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	taperuntime/         Root package with the Machine capability interface
//	├── program/         Instructions, tokens and the linked program
//	├── jump/            Bracket pairing and the validated jump table
//	├── memory/          Bounded cells, the pointer and the tape
//	├── engine/          Fetch-decode-execute loop over a Machine
//	├── event/           Per-step events and the bounded event log
//	├── parser/          Strict and comment-tolerant front ends
//	├── config/          Host configuration from flags, TOML or YAML
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
//	prog, err := parser.Strict{}.ParseString("++++++++[>++++++++<-]>+.")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mem := memory.New(memory.DefaultOptions())
//	eng, err := engine.New(prog, mem, engine.WithOutput(os.Stdout))
//	if err != nil {
//	    log.Fatal(err) // unmatched brackets, with the token position
//	}
//	if err := eng.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Stepping
//
// Engine.RunOnce executes exactly one instruction and reports whether the run
// continues, completed, or failed. Hosts that want tracing attach an
// event.Log with engine.WithSink and inspect it between steps.
//
// # Thread Safety
//
// An Engine and its Memory are single-threaded. Run independent programs on
// independent engines. event.Log is safe for concurrent readers.
package taperuntime
