package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hytalekt/stubgen/archive"
)

// ExecDecompiler shells out to an external decompiler per class and reads
// Java source from its stdout. Occurrences of {archive} and {class} in the
// arguments are replaced by the archive path and the internal class name.
type ExecDecompiler struct {
	Command string
	Args    []string
	Archive string
}

func (d *ExecDecompiler) Decompile(ctx context.Context, cls *archive.Class) (string, error) {
	internal := strings.ReplaceAll(cls.Name, ".", "/")
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		a = strings.ReplaceAll(a, "{archive}", d.Archive)
		a = strings.ReplaceAll(a, "{class}", internal)
		args[i] = a
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Command, args...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w (%s)",
			d.Command, cls.Name, err, strings.TrimSpace(stderr.String()))
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("%s produced no output for %s", d.Command, cls.Name)
	}
	return out.String(), nil
}
