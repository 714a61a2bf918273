package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FencedBlock locates one fenced code block inside a Markdown source buffer.
//
// Start and End are byte offsets delimiting the block body (the raw lines
// between the fences, fences excluded), End exclusive. An unterminated fence
// at end of file yields a body extending to EOF.
type FencedBlock struct {
	Info  string
	Start int
	End   int
}

// Body returns the block body as a string.
func (b FencedBlock) Body(source []byte) string {
	return string(source[b.Start:b.End])
}

// BodyLines splits the block body into lines, reporting whether the body
// carried a trailing newline so callers can reassemble it byte-exactly.
func (b FencedBlock) BodyLines(source []byte) (lines []string, trailingNewline bool) {
	body := b.Body(source)
	if body == "" {
		return nil, false
	}
	trailingNewline = strings.HasSuffix(body, "\n")
	return strings.Split(strings.TrimSuffix(body, "\n"), "\n"), trailingNewline
}

// FindFencedBlocks parses source and returns every fenced code block whose
// info string contains infoSubstr (every block when infoSubstr is empty).
// Blocks with empty bodies are omitted; there is nothing to rewrite in them.
func FindFencedBlocks(source []byte, infoSubstr string) []FencedBlock {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var blocks []FencedBlock
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fcb, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}

		var info string
		if fcb.Info != nil {
			info = string(fcb.Info.Segment.Value(source))
		}
		if infoSubstr != "" && !strings.Contains(info, infoSubstr) {
			return gmast.WalkContinue, nil
		}

		lines := fcb.Lines()
		if lines.Len() == 0 {
			return gmast.WalkContinue, nil
		}
		blocks = append(blocks, FencedBlock{
			Info:  info,
			Start: lines.At(0).Start,
			End:   lines.At(lines.Len() - 1).Stop,
		})
		return gmast.WalkContinue, nil
	})

	return blocks
}
