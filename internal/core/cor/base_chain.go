// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the fundamental building
// blocks for the conversion pipelines. This file defines the `BaseChain`,
// the default implementation of the `Chain` interface.
//
// Logic Flow:
// A `BaseChain` is itself a `Command`, allowing chains to be nested within
// other chains. Its role is to execute an ordered list of commands with a
// shared context:
//
//  1. An OpenTelemetry span is opened for the whole chain, and a child span
//     for each command as it runs.
//  2. Before each command, the chain checks the context for errors recorded
//     by earlier commands; unless `continueOnFailure` is set, the first
//     error stops the chain.
//  3. A command only runs if its `IsExecutable` precondition holds. A
//     non-executable command is recorded on its span and skipped; this is
//     how an empty-input stage (a recording with no usable video) lets the
//     rest of the pipeline pass through without raising an error.
//  4. After each command, the value the command placed under `CtxOut` is
//     moved to `CtxIn`, so the output of one stage becomes the input of the
//     next.
package cor

import (
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// BaseChain is the default implementation of the Chain interface. It holds a
// slice of commands to be executed sequentially.
type BaseChain struct {
	BaseCommand
	continueOnFailure bool      // Whether to keep executing subsequent commands after one fails.
	commands          []Command // The ordered list of commands this chain executes.
}

// NewBaseChain is the constructor for BaseChain.
//
// Inputs:
//   - name: A string name for this chain instance, used for logging and telemetry.
//
// Outputs:
//   - *BaseChain: A pointer to the newly instantiated chain.
func NewBaseChain(name string) *BaseChain {
	return &BaseChain{BaseCommand: *NewBaseCommand(name)}
}

// ContinueOnFailure is a builder method that sets the error handling behavior
// of the chain. If true, the chain executes all its commands even when some
// of them record errors; if false, the chain stops at the first failure.
func (c *BaseChain) ContinueOnFailure(continueOnFailure bool) Chain {
	c.continueOnFailure = continueOnFailure
	return c
}

// AddCommand is a builder method that adds a command to the end of the
// chain's execution sequence.
func (c *BaseChain) AddCommand(command Command) Chain {
	c.commands = append(c.commands, command)
	return c
}

// IsExecutable checks if the chain can be executed. For a chain, this simply
// means that a valid Go context exists.
func (c *BaseChain) IsExecutable(context Context) bool {
	return context.GetContext() != nil
}

// Execute orchestrates the sequential execution of all commands in the chain.
//
// Inputs:
//   - chCtx: The shared `cor.Context` for the entire pipeline execution.
func (c *BaseChain) Execute(chCtx Context) {
	parentCtx := chCtx.GetContext()

	outerCtx, chainSpan := c.Tracer.Start(parentCtx, fmt.Sprintf("%s_execute", c.GetName()))
	defer chainSpan.End()

	for _, command := range c.commands {
		commandContext, commandSpan := c.Tracer.Start(outerCtx, command.GetName())

		if chCtx.HasErrors() && !c.continueOnFailure {
			commandSpan.SetStatus(codes.Error, "previous error on chain; skipping execution")
			commandSpan.End()
			break
		}

		if command.IsExecutable(chCtx) {
			// Scope the command's Go context to its own span, then restore
			// the chain context so the trace hierarchy stays flat.
			chCtx.SetContext(commandContext)
			command.Execute(chCtx)
			chCtx.SetContext(outerCtx)
		} else {
			commandSpan.SetStatus(codes.Error, fmt.Sprintf("command not executable: %s", command.GetName()))
		}

		if chCtx.HasErrors() {
			commandSpan.SetStatus(codes.Error, "error during or after command execution")
		} else {
			commandSpan.SetStatus(codes.Ok, "command completed successfully")
		}
		commandSpan.End()

		// Pipe the output of this command into the input of the next.
		outputValue := chCtx.Get(CtxOut)
		chCtx.Remove(CtxIn)
		if outputValue != nil {
			chCtx.Add(CtxIn, outputValue)
		}
		chCtx.Remove(CtxOut)
	}

	if !chCtx.HasErrors() {
		chainSpan.SetStatus(codes.Ok, "chain completed successfully")
	} else {
		chainSpan.SetStatus(codes.Error, "chain failed to execute")
	}
}
