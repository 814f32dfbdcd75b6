package shell

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vaultsh/vaultsh/internal/shell/command"
)

// tabHelp is the default help renderer: a plain tab-aligned table.
type tabHelp struct{}

func (tabHelp) RenderHelp(w io.Writer, rows []command.HelpRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Command\tAlias\tDescription")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, row.Alias, row.Description)
	}
	_ = tw.Flush()
}
