package checker

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sunholo/mlcheck/internal/errors"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// FormatError renders err as a human-readable, color-coded diagnostic
// block suitable for a CLI: one line per component Report, bold code
// and phase prefix, red for anything but a bare internal error which
// prints in yellow (an implementation bug, not a user-program defect).
func FormatError(err error) string {
	reports := Errors(err)
	if len(reports) == 0 {
		return red(err.Error())
	}

	var b strings.Builder
	for i, rep := range reports {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatReport(rep))
	}
	return b.String()
}

func formatReport(rep *errors.Report) string {
	severity := red
	if rep.Code == errors.CodeInternalError {
		severity = yellow
	}
	return fmt.Sprintf("%s %s %s", severity(bold(rep.Code)), cyan("["+rep.Phase+"]"), rep.Message)
}
