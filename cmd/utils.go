package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"

	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

// OpenFile opens a file or URL with the OS default application
func OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	// Start() detaches so the CLI can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	return nil
}

// confirm asks a y/N question on stdin
func confirm(question string) bool {
	fmt.Print(ui.StyleWarning.Render(question + " (y/N): "))
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printJSON writes v as indented JSON, highlighted when stdout is a terminal
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) && ui.ColorsEnabled() {
		fmt.Println(highlightJSON(string(data)))
		return nil
	}
	fmt.Println(string(data))
	return nil
}

// highlightJSON applies syntax highlighting to JSON content
func highlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	if err := formatters.TTY16m.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
