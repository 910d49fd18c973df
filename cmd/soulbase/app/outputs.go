package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/xoundbyte/soulbase/internal/mutate"
	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// writeOutputs hands machine-readable key-value outputs to the orchestrating
// caller. When GITHUB_OUTPUT is set the pairs are appended to that file in
// workflow-output format; otherwise they only appear on stdout via the
// command's own printing.
func writeOutputs(outputs []mutate.Output) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	var b strings.Builder
	for _, o := range outputs {
		if strings.ContainsAny(o.Value, "\n") {
			// Multi-line values use the heredoc-style delimiter syntax.
			fmt.Fprintf(&b, "%s<<SOULBASE_EOF\n%s\nSOULBASE_EOF\n", o.Key, o.Value)
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", o.Key, o.Value)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(b.String()); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
