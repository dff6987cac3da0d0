package curation

import (
	"context"
	"fmt"
	"time"

	"github.com/ProbablyAY/SparkCo/pkg/llm"
)

// Stage is a step of the curation state machine:
//
//	Initial -> Success | Repair | Fail
//	Repair  -> Success | Fail
type Stage int

const (
	StageInitial Stage = iota
	StageRepair
	StageSuccess
	StageFail
)

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageRepair:
		return "repair"
	case StageSuccess:
		return "success"
	case StageFail:
		return "fail"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

type outcome int

const (
	outcomeValid outcome = iota
	outcomeInvalid
	outcomeCallFailed
)

// next is the whole transition table. Only Initial can reach Repair, so at most
// two model calls happen per run.
func next(s Stage, o outcome) Stage {
	switch {
	case o == outcomeValid:
		return StageSuccess
	case s == StageInitial && o == outcomeInvalid:
		return StageRepair
	default:
		return StageFail
	}
}

// Result describes a finished run. Err is set iff Output is nil.
type Result struct {
	Output  *Output
	Calls   int
	Latency time.Duration
	Err     error
}

type Pipeline struct {
	provider    llm.LLMProvider
	schema      Schema
	callTimeout time.Duration
}

func NewPipeline(provider llm.LLMProvider, schema Schema, callTimeout time.Duration) *Pipeline {
	return &Pipeline{
		provider:    provider,
		schema:      schema,
		callTimeout: callTimeout,
	}
}

func (p *Pipeline) Model() string {
	return p.provider.ModelName()
}

// Run curates a rendered transcript. A failed model call ends the run; only an
// unparseable or invalid reply earns the repair call.
func (p *Pipeline) Run(ctx context.Context, transcript string) Result {
	start := time.Now()
	res := Result{}

	stage := StageInitial
	prompt := initialPrompt(transcript)
	for stage == StageInitial || stage == StageRepair {
		raw, err := p.call(ctx, prompt)
		res.Calls++
		if err != nil {
			res.Err = fmt.Errorf("%s call: %w", stage, err)
			stage = next(stage, outcomeCallFailed)
			continue
		}

		out, err := p.schema.Parse(raw)
		if err != nil {
			res.Err = fmt.Errorf("%s reply: %w", stage, err)
			stage = next(stage, outcomeInvalid)
			prompt = repairPrompt(raw)
			continue
		}

		res.Output, res.Err = out, nil
		stage = next(stage, outcomeValid)
	}

	res.Latency = time.Since(start)
	return res
}

func (p *Pipeline) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	return p.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemMessage(p.schema.StrictTimeline)},
		{Role: "user", Content: prompt},
	}, llm.WithJSONResponse())
}
