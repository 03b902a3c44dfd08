package generate

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/voicedesk/voicedesk/engine/domain"
)

const transcriptRule = "======================================================================"

// ExportTranscript serializes the full history plus metadata (model name,
// turn count, export time) to a plain-text file at path.
func (g *Generator) ExportTranscript(path string) error {
	var b strings.Builder
	b.WriteString("CHATBOT CONVERSATION LOG\n")
	b.WriteString(transcriptRule + "\n")
	fmt.Fprintf(&b, "Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Model: %s\n", g.opts.Model)
	fmt.Fprintf(&b, "Total Turns: %d\n", g.history.Len()/2)
	b.WriteString(transcriptRule + "\n\n")

	turns := g.history.Turns()
	n := 1
	for i := 0; i+1 < len(turns); i += 2 {
		fmt.Fprintf(&b, "TURN %d\n", n)
		b.WriteString(strings.Repeat("-", 70) + "\n")
		fmt.Fprintf(&b, "User:\n%s\n\n", turns[i].Text)
		fmt.Fprintf(&b, "Assistant:\n%s\n", turns[i+1].Text)
		b.WriteString(strings.Repeat("-", 70) + "\n\n")
		n++
	}

	b.WriteString("\n" + transcriptRule + "\n")
	b.WriteString("END OF CONVERSATION LOG\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrExport, path, err)
	}
	return nil
}
