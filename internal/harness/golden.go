package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ministore/internal/ir"
)

// GoldenDir is where scenario golden files live, relative to the package
// under test.
const GoldenDir = "testdata/scenarios/golden"

// TraceSnapshot captures the complete trace for a scenario execution plus a
// summary of the final state.
type TraceSnapshot struct {
	ScenarioName string
	Session      string
	Trace        []TraceEvent
	Result       *Result
}

// toCanonical converts a TraceSnapshot to an IRObject for canonical JSON
// serialization. Content-addressed ids are left out: they depend on
// nothing the trace does not already show.
func (s *TraceSnapshot) toCanonical() ir.IRObject {
	trace := make(ir.IRArray, len(s.Trace))
	for i, event := range s.Trace {
		obj := ir.IRObject{
			"type": ir.IRString(event.Type),
			"seq":  ir.IRInt(event.Seq),
		}
		if event.Action != "" {
			obj["action"] = ir.IRString(event.Action)
		}
		if event.Args != nil {
			obj["args"] = event.Args
		}
		if event.Case != "" {
			obj["case"] = ir.IRString(event.Case)
		}
		if event.Result != nil {
			obj["result"] = event.Result
		}
		trace[i] = obj
	}

	out := ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"session":       ir.IRString(s.Session),
		"trace":         trace,
	}

	if s.Result != nil {
		snap := s.Result.Final
		lines := make(ir.IRArray, len(snap.Cart.Lines))
		for i, l := range snap.Cart.Lines {
			lines[i] = ir.IRObject{
				"product_id": ir.IRString(l.ProductID),
				"quantity":   ir.IRInt(l.Quantity),
			}
		}
		out["final"] = ir.IRObject{
			"cart_lines": lines,
			"cart_total": ir.IRString(snap.Cart.Total),
			"status":     ir.IRString(snap.Status),
			"view":       ir.IRString(snap.View),
		}
	}
	return out
}

// GoldenBytes renders the golden representation of a scenario run:
// canonical JSON of the trace and final state summary.
func GoldenBytes(scenario *Scenario, result *Result) ([]byte, error) {
	session := scenario.Session
	if session == "" {
		session = DefaultSession
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Session:      session,
		Trace:        result.Trace,
		Result:       result,
	}
	return ir.MarshalCanonical(snapshot.toCanonical())
}

// RunWithGolden executes a scenario and compares its golden representation
// against testdata/scenarios/golden/{goldenName}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, goldenName string, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, goldenName, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, goldenName string, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := GoldenBytes(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, goldenName, data)

	return nil
}
