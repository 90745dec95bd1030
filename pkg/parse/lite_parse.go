package parse

import "src.nush.dev/pkg/diag"

// LiteCommand is a command as a list of spans, before the parts are parsed.
type LiteCommand struct {
	Comments []diag.Span
	Parts    []diag.Span
}

// LitePipeline is a sequence of commands joined by |.
type LitePipeline struct {
	Commands []LiteCommand
}

// LiteBlock is a sequence of pipelines separated by ; or newlines.
type LiteBlock struct {
	Block []LitePipeline
}

// LiteParse groups tokens into commands and pipelines. A pipe that is not
// followed by a command is an error.
func LiteParse(tokens []Token) (LiteBlock, *Error) {
	var (
		block    LiteBlock
		pipeline LitePipeline
		command  LiteCommand
		err      *Error
		lastPipe *Token
	)
	endCommand := func() {
		if len(command.Parts) > 0 {
			pipeline.Commands = append(pipeline.Commands, command)
		}
		command = LiteCommand{}
	}
	endPipeline := func() {
		endCommand()
		if len(pipeline.Commands) > 0 {
			block.Block = append(block.Block, pipeline)
		}
		pipeline = LitePipeline{}
	}
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case TokenItem:
			command.Parts = append(command.Parts, tok.Span)
			lastPipe = nil
		case TokenComment:
			command.Comments = append(command.Comments, tok.Span)
		case TokenPipe:
			if len(command.Parts) == 0 {
				err = firstErr(err, newError(Expected, "command", tok.Span))
			}
			endCommand()
			lastPipe = tok
		case TokenEOL:
			// A newline after | continues the pipeline.
			if lastPipe == nil {
				endPipeline()
			}
		case TokenSemicolon:
			if lastPipe != nil {
				err = firstErr(err, newError(Expected, "command", lastPipe.Span))
				lastPipe = nil
			}
			endPipeline()
		}
	}
	if lastPipe != nil {
		err = firstErr(err, newError(Expected, "command", lastPipe.Span))
	}
	endPipeline()
	return block, err
}
