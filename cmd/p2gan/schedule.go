package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tensorworks-llc/p2gan/internal/markdown"
	"github.com/tensorworks-llc/p2gan/internal/ui"
	"github.com/tensorworks-llc/p2gan/report"
	"github.com/tensorworks-llc/p2gan/schedule"
)

const (
	lineWidth   = 80
	notesIndent = 4
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <input>",
	Short: "Resolve a plan and print its schedule",
	Long: `Resolve a plan and print its schedule.

The stakeholder directory is never modified by this command.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

var (
	scheduleStart time.Time
	scheduleJSON  bool
	scheduleNotes bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	addDateFlag(scheduleCmd, &scheduleStart, "start", "Start date (YYYY-MM-DD) when the plan has none")
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "Output the resolved project as JSON")
	scheduleCmd.Flags().BoolVar(&scheduleNotes, "notes", false, "Print the project description and task notes")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	p, rep, err := loadProject(args[0], loadOptions{start: scheduleStart})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if scheduleJSON {
		return encodeJSON(out, struct {
			Project *schedule.Project `json:"project"`
			Report  *schedule.Report  `json:"report"`
		}{p, rep})
	}

	fmt.Fprint(out, report.Table(p))
	if rep.HasCycles() {
		fmt.Fprintln(out, ui.Warning(fmt.Sprintf("\n%d tasks were placed without their dependencies because of a cycle: %v", len(rep.Forced), rep.Forced)))
	}
	if scheduleNotes {
		printNotes(out, p)
	}
	return nil
}

func printNotes(out io.Writer, p *schedule.Project) {
	if description := markdown.SafeRender(lineWidth, 0, []byte(p.Description)); len(description) > 0 {
		fmt.Fprintf(out, "\n%s\n", ui.Heading("Description"))
		fmt.Fprintln(out, string(description))
	}

	printed := false
	for _, task := range p.Flatten() {
		if task.Notes == "" {
			continue
		}
		if !printed {
			fmt.Fprintf(out, "\n%s\n", ui.Heading("Notes"))
			printed = true
		}
		fmt.Fprintf(out, "%d %s\n", task.ID, task.Name)
		wrapped := markdown.ReflowParagraphs(task.Notes, lineWidth-notesIndent)
		fmt.Fprintln(out, markdown.IndentBlock(wrapped, notesIndent))
	}
}
