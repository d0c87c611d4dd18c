// Package engine executes a linked program against a tape machine.
//
// # Execution Model
//
// The engine owns a program counter and drives a fetch-decode-execute cycle:
//
//  1. Fetch the token at the program counter. No token means the run is
//     complete.
//  2. Dispatch on the instruction. Cell and pointer instructions go to the
//     Machine; Read writes the projected rune to the output; Write takes one
//     rune from the input; loop markers consult the program's jump table.
//  3. Advance the program counter by one. A taken jump lands on the
//     counterpart bracket, so the advance steps past it.
//  4. Push the step's event to the attached sink, if any.
//
// Any error event halts the run. Both halted states are terminal: RunOnce
// keeps reporting the same outcome and a fresh Engine is needed to run again.
//
// # Driving a Run
//
//	eng, err := engine.New(prog, memory.New(memory.DefaultOptions()),
//	    engine.WithInput(os.Stdin),
//	    engine.WithOutput(os.Stdout),
//	    engine.WithSink(log),
//	)
//	if err != nil {
//	    return err // unmatched brackets
//	}
//	for {
//	    step, err := eng.RunOnce()
//	    if step != engine.StepContinue {
//	        return err
//	    }
//	}
//
// Run does the same loop and also stops when its context is canceled.
//
// # Thread Safety
//
// An Engine is NOT thread-safe and should be used by a single goroutine.
package engine
