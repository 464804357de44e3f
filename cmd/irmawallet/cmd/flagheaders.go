package cmd

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// headerFlagsTemplate is cobra's default usage template, with the flags passed through
// insertHeaders to group them under headers.
var headerFlagsTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | insertHeaders .CommandPath}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// flagHeaders maps command paths to the headers to show above their flags, keyed by the
// name of the first flag under each header.
var flagHeaders = map[string]map[string]string{}

var flagLine = regexp.MustCompile(`^\s+(-\w, )?--([^ ]*)`)

func init() {
	cobra.AddTemplateFunc("insertHeaders", insertHeaders)
}

// useHeaders makes cmd group its flags under the given headers.
func useHeaders(cmd *cobra.Command, headers map[string]string) {
	cmd.SetUsageTemplate(headerFlagsTemplate)
	flagHeaders[cmd.CommandPath()] = headers
}

func insertHeaders(cmdPath string, flags string) string {
	headers := flagHeaders[cmdPath]
	if len(headers) == 0 {
		return flags
	}

	in := strings.Split(flags, "\n")
	out := make([]string, 0, len(in)+len(headers))
	for _, line := range in {
		if matches := flagLine.FindStringSubmatch(line); matches != nil {
			if header := headers[matches[2]]; header != "" {
				out = append(out, "\n"+header)
			}
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
