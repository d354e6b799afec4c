package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/vaultkit/internal/ui"
)

func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && ui.StdinIsInteractive()
}

// confirmer asks yes/no questions on one shared reader so buffered input
// is not lost between prompts.
type confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newConfirmer(in io.Reader, out io.Writer) *confirmer {
	return &confirmer{in: bufio.NewReader(in), out: out}
}

func (c *confirmer) confirm(message string) bool {
	if message == "" {
		message = "Apply changes?"
	}
	fmt.Fprintf(c.out, "%s %s ", message, ui.Hint("[y/N]"))
	response, _ := c.in.ReadString('\n')
	return isYes(response)
}

func isYes(response string) bool {
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
