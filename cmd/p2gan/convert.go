package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tensorworks-llc/p2gan/gan"
	"github.com/tensorworks-llc/p2gan/report"
	"github.com/tensorworks-llc/p2gan/schedule"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output.gan>",
	Short: "Convert a plan into a GanttProject file",
	Long: `Convert a plan into a GanttProject file.

The input format is chosen by extension: .md for markdown plans, .yaml or
.yml for definitions and .gan to re-resolve an existing chart. Use "-" as
the output to write the .gan document to stdout.

People named in a markdown plan's resource section are recorded in the
stakeholder directory unless --no-stakeholders is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

var (
	convertStart          time.Time
	convertPDF            string
	convertNoStakeholders bool
)

func init() {
	rootCmd.AddCommand(convertCmd)

	addDateFlag(convertCmd, &convertStart, "start", "Start date (YYYY-MM-DD) when the plan has none")
	convertCmd.Flags().StringVar(&convertPDF, "pdf", "", "Also write a PDF schedule report to this path")
	convertCmd.Flags().BoolVar(&convertNoStakeholders, "no-stakeholders", false, "Do not read or update the stakeholder directory")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	p, _, err := loadProject(input, loadOptions{start: convertStart, stakeholders: !convertNoStakeholders})
	if err != nil {
		return err
	}

	if err := writeGan(cmd, p, output); err != nil {
		return err
	}
	if convertPDF != "" {
		if err := writePDF(p, convertPDF); err != nil {
			return err
		}
	}

	if output != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d tasks, %d milestones\n", output, len(p.Flatten()), p.MilestoneCount())
	}
	return nil
}

func writeGan(cmd *cobra.Command, p *schedule.Project, output string) error {
	if output == "-" {
		return gan.Encode(cmd.OutOrStdout(), p)
	}
	data, err := gan.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.WithFields(logrus.Fields{"path": output, "bytes": len(data)}).Info("wrote gan file")
	return nil
}

func writePDF(p *schedule.Project, path string) error {
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, p, report.PDFOptions{}); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.WithField("path", path).Info("wrote pdf report")
	return nil
}
