// Package complete implements code completion.
//
// The Completer parses the line being edited into a working set that is
// thrown away afterwards, flattens the result, and generates candidates
// based on the shape of the span under the cursor.
package complete

import (
	"context"
	"sort"
	"time"

	"src.nush.dev/pkg/diag"
	"src.nush.dev/pkg/engine"
	"src.nush.dev/pkg/eval"
	"src.nush.dev/pkg/eval/vals"
	"src.nush.dev/pkg/fsutil"
	"src.nush.dev/pkg/logutil"
	"src.nush.dev/pkg/parse"
)

var logger = logutil.GetLogger("[complete] ")

// Config stores the configuration of a Completer.
type Config struct {
	// Maximum time for evaluating a custom completion. Zero means no limit.
	CustomBudget time.Duration
}

// Suggestion is a completion candidate. Span is the part of the line to
// replace with Text, with offsets relative to the start of the line.
type Suggestion struct {
	Span diag.Span
	Text string
}

// Completer generates completions against the engine state of a session.
type Completer struct {
	shared *engine.Shared
	cfg    Config
}

// New returns a Completer.
func New(shared *engine.Shared, cfg Config) *Completer {
	return &Completer{shared, cfg}
}

// Complete returns the completions for line with the cursor at byte offset
// pos. The engine state is not changed. Errors are not reported; when
// something goes wrong, there are no suggestions.
func (c *Completer) Complete(line string, pos int) []Suggestion {
	var result []Suggestion
	c.shared.Read(func(es *engine.EngineState) {
		result = c.complete(es, line, pos)
	})
	return result
}

func (c *Completer) complete(es *engine.EngineState, line string, pos int) []Suggestion {
	ws := engine.NewWorkingSet(es)
	offset := ws.NextSpanStart()
	pos = offset + max(0, min(pos, len(line)))

	// Parse errors are expected in incomplete code.
	block, _ := parse.Parse(ws, "[completion]", []byte(line), false)
	for _, flat := range parse.FlattenBlock(ws, block) {
		// Expanded aliases bring in spans from earlier files.
		if flat.Span.Start < offset || !flat.Span.Contains(pos) {
			continue
		}
		prefix := string(ws.GetSpanContents(flat.Span))
		var items []Suggestion
		switch flat.Shape.Kind {
		case parse.ShapeCustom:
			items = c.completeCustom(ws, flat.Shape.Custom, flat.Span, prefix)
		case parse.ShapeExternal, parse.ShapeInternalCall:
			if flat.Shape.Kind == parse.ShapeExternal && fsutil.IsPathLike(prefix) {
				items = completeFiles(flat.Span, prefix)
				break
			}
			for _, name := range ws.FindCommandsByPrefix([]byte(prefix)) {
				items = append(items, Suggestion{flat.Span, toValidUTF8(name)})
			}
		case parse.ShapeFilepath, parse.ShapeGlobPattern:
			items = completeFiles(flat.Span, prefix)
		}
		return finish(items, offset)
	}
	return nil
}

// Evaluates the body of a custom completion, which must evaluate to a list
// of strings. The code in the working set is visible to the body.
func (c *Completer) completeCustom(ws *engine.StateWorkingSet, body string, span diag.Span, prefix string) []Suggestion {
	block, err := parse.Parse(ws, "[custom completion]", []byte(body), true)
	if err != nil {
		logger.Printf("parse custom completion %q: %v", body, err)
		return nil
	}
	es := ws.Permanent().Clone()
	es.MergeDelta(ws.Render())

	ctx := context.Background()
	if c.cfg.CustomBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.CustomBudget)
		defer cancel()
	}
	v, err := eval.EvalBlock(eval.NewContext(ctx, es, engine.NewStack()), block, nil)
	if err != nil {
		logger.Printf("evaluate custom completion %q: %v", body, err)
		return nil
	}
	l, ok := v.(vals.List)
	if !ok {
		return nil
	}
	var items []Suggestion
	vals.Iterate(l, func(e any) bool {
		if s, ok := e.(string); ok && hasPrefix(s, prefix) {
			items = append(items, Suggestion{span, s})
		}
		return true
	})
	return items
}

// Sorts and deduplicates suggestions, and makes their spans relative to the
// start of the line.
func finish(items []Suggestion, offset int) []Suggestion {
	sort.Slice(items, func(i, j int) bool { return items[i].Text < items[j].Text })
	var result []Suggestion
	for i, item := range items {
		if i > 0 && item.Text == items[i-1].Text {
			continue
		}
		item.Span = item.Span.Shift(-offset)
		result = append(result, item)
	}
	return result
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
