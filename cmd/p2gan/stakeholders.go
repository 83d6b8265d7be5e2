package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tensorworks-llc/p2gan/internal/ui"
	"github.com/tensorworks-llc/p2gan/stakeholder"
)

var stakeholdersCmd = &cobra.Command{
	Use:     "stakeholders",
	Aliases: []string{"people"},
	Short:   "Manage the stakeholder directory",
	Long: `Manage the stakeholder directory.

The directory is shared by every project. Markdown plans converted with
"p2gan convert" add the people they name and record the project on them.`,
}

var stakeholdersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a stakeholder",
	Args:  cobra.ExactArgs(1),
	RunE:  runStakeholdersAdd,
}

var stakeholdersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stakeholders",
	Args:    cobra.NoArgs,
	RunE:    runStakeholdersList,
}

var stakeholdersRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a stakeholder",
	Args:    cobra.ExactArgs(1),
	RunE:    runStakeholdersRemove,
}

var stakeholdersExportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Export stakeholders as CSV",
	Long:  "Export stakeholders as CSV to the given file, or to stdout when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStakeholdersExport,
}

var stakeholdersSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a team for a set of skills",
	Args:  cobra.NoArgs,
	RunE:  runStakeholdersSuggest,
}

var (
	stakeholderRole         string
	stakeholderEmail        string
	stakeholderPhone        string
	stakeholderDepartment   string
	stakeholderSkills       []string
	stakeholderAliases      []string
	stakeholderAvailability float64
	stakeholderRate         float64
	stakeholderOvertimeRate float64

	stakeholdersListProject    string
	stakeholdersListRole       string
	stakeholdersListDepartment string
	stakeholdersListMinAvail   float64
	stakeholdersListJSON       bool

	stakeholdersSuggestSkills []string
	stakeholdersSuggestSize   int
)

func init() {
	rootCmd.AddCommand(stakeholdersCmd)
	stakeholdersCmd.AddCommand(stakeholdersAddCmd)
	stakeholdersCmd.AddCommand(stakeholdersListCmd)
	stakeholdersCmd.AddCommand(stakeholdersRemoveCmd)
	stakeholdersCmd.AddCommand(stakeholdersExportCmd)
	stakeholdersCmd.AddCommand(stakeholdersSuggestCmd)

	stakeholdersAddCmd.Flags().StringVar(&stakeholderRole, "role", "", "Role in projects")
	stakeholdersAddCmd.Flags().StringVar(&stakeholderEmail, "email", "", "Email address")
	stakeholdersAddCmd.Flags().StringVar(&stakeholderPhone, "phone", "", "Phone number")
	stakeholdersAddCmd.Flags().StringVar(&stakeholderDepartment, "department", "", "Department")
	stakeholdersAddCmd.Flags().StringSliceVar(&stakeholderSkills, "skills", nil, "Comma-separated skills")
	stakeholdersAddCmd.Flags().StringSliceVar(&stakeholderAliases, "alias", nil, "Alternative names (repeatable)")
	stakeholdersAddCmd.Flags().Float64Var(&stakeholderAvailability, "availability", stakeholder.DefaultAvailability, "Fraction of time available (0-1)")
	stakeholdersAddCmd.Flags().Float64Var(&stakeholderRate, "rate", 0, "Standard rate per day")
	stakeholdersAddCmd.Flags().Float64Var(&stakeholderOvertimeRate, "overtime-rate", 0, "Overtime rate per day")

	stakeholdersListCmd.Flags().StringVar(&stakeholdersListProject, "project", "", "Only stakeholders on this project")
	stakeholdersListCmd.Flags().StringVar(&stakeholdersListRole, "role", "", "Only stakeholders with this role")
	stakeholdersListCmd.Flags().StringVar(&stakeholdersListDepartment, "department", "", "Only stakeholders in this department")
	stakeholdersListCmd.Flags().Float64Var(&stakeholdersListMinAvail, "min-availability", 0, "Only stakeholders at least this available (0-1)")
	stakeholdersListCmd.Flags().BoolVar(&stakeholdersListJSON, "json", false, "Output as JSON")

	stakeholdersSuggestCmd.Flags().StringSliceVar(&stakeholdersSuggestSkills, "skills", nil, "Comma-separated skills the team needs")
	stakeholdersSuggestCmd.Flags().IntVar(&stakeholdersSuggestSize, "size", 3, "Maximum team size")
	stakeholdersSuggestCmd.MarkFlagRequired("skills")
}

func runStakeholdersAdd(cmd *cobra.Command, args []string) error {
	dir, err := openStakeholders()
	if err != nil {
		return err
	}

	s, err := dir.Add(stakeholder.Stakeholder{
		Name:         args[0],
		Role:         stakeholderRole,
		Email:        stakeholderEmail,
		Phone:        stakeholderPhone,
		Department:   stakeholderDepartment,
		Skills:       stakeholderSkills,
		Aliases:      stakeholderAliases,
		Availability: stakeholderAvailability,
		StandardRate: stakeholderRate,
		OvertimeRate: stakeholderOvertimeRate,
	})
	if err != nil {
		return err
	}
	if err := dir.Save(); err != nil {
		return err
	}
	logger.WithField("path", dir.Path()).Debug("stakeholders saved")

	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", s.Name)
	return nil
}

func runStakeholdersList(cmd *cobra.Command, args []string) error {
	dir, err := openStakeholders()
	if err != nil {
		return err
	}

	people := dir.List(stakeholder.Filter{
		Project:    stakeholdersListProject,
		Role:       stakeholdersListRole,
		Department: stakeholdersListDepartment,
	})
	if hasChangedFlags(cmd, "min-availability") {
		people = filterAvailable(people, stakeholdersListMinAvail)
	}

	out := cmd.OutOrStdout()
	if stakeholdersListJSON {
		if people == nil {
			people = []*stakeholder.Stakeholder{}
		}
		return encodeJSON(out, people)
	}
	if len(people) == 0 {
		fmt.Fprintln(out, "no stakeholders")
		return nil
	}
	printStakeholders(out, people)
	return nil
}

func filterAvailable(people []*stakeholder.Stakeholder, minimum float64) []*stakeholder.Stakeholder {
	var result []*stakeholder.Stakeholder
	for _, s := range people {
		if s.Availability >= minimum {
			result = append(result, s)
		}
	}
	return result
}

func printStakeholders(out io.Writer, people []*stakeholder.Stakeholder) {
	table := ui.NewTableBuilder([]string{"NAME", "ROLE", "DEPARTMENT", "AVAILABLE", "SKILLS", "PROJECTS"}, len(people)).AlignRight(3)
	for _, s := range people {
		table.AddRow([]string{
			s.Name,
			dashIfEmpty(s.Role),
			dashIfEmpty(s.Department),
			strconv.FormatFloat(s.Availability*100, 'f', 0, 64) + "%",
			ui.TruncateTableCell(dashIfEmpty(strings.Join(s.Skills, ", "))),
			ui.TruncateTableCell(dashIfEmpty(strings.Join(s.Projects, ", "))),
		})
	}
	fmt.Fprint(out, table.String())
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func runStakeholdersRemove(cmd *cobra.Command, args []string) error {
	dir, err := openStakeholders()
	if err != nil {
		return err
	}
	if err := dir.Remove(args[0]); err != nil {
		return err
	}
	if err := dir.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runStakeholdersExport(cmd *cobra.Command, args []string) error {
	dir, err := openStakeholders()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return dir.ExportCSV(cmd.OutOrStdout())
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	if err := dir.ExportCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d stakeholders to %s\n", dir.Len(), args[0])
	return nil
}

func runStakeholdersSuggest(cmd *cobra.Command, args []string) error {
	dir, err := openStakeholders()
	if err != nil {
		return err
	}

	team := dir.SuggestTeam(stakeholdersSuggestSkills, stakeholdersSuggestSize)
	out := cmd.OutOrStdout()
	if len(team) == 0 {
		fmt.Fprintf(out, "no stakeholders with skills %s\n", strings.Join(stakeholdersSuggestSkills, ", "))
		return nil
	}
	printStakeholders(out, team)
	return nil
}
