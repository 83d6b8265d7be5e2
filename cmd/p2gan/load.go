package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tensorworks-llc/p2gan/calendar"
	"github.com/tensorworks-llc/p2gan/gan"
	"github.com/tensorworks-llc/p2gan/internal/validation"
	"github.com/tensorworks-llc/p2gan/plan"
	"github.com/tensorworks-llc/p2gan/schedule"
	"github.com/tensorworks-llc/p2gan/stakeholder"
)

// ErrUnsupportedInput is returned for an input file with an unknown extension.
var ErrUnsupportedInput = errors.New("unsupported input format")

var inputExtensions = []string{".md", ".markdown", ".yaml", ".yml", ".gan"}

// loadOptions controls how an input plan is read.
type loadOptions struct {
	start        time.Time
	stakeholders bool
}

// loadProject reads path according to its extension, applies configured
// defaults and resolves every task's dates.
func loadProject(path string, opts loadOptions) (*schedule.Project, *schedule.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()

	var p *schedule.Project
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".md", ".markdown":
		parseOpts := plan.Options{Start: opts.start}
		if opts.stakeholders {
			dir, err := openStakeholders()
			if err != nil {
				return nil, nil, err
			}
			parseOpts.Stakeholders = dir
		}
		result, err := plan.ParseMarkdown(f, parseOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, u := range result.Unresolved {
			logger.WithFields(logrus.Fields{"task": u.Task, "name": u.Name, "line": u.Line}).Warn("unresolved dependency dropped")
		}
		for _, u := range result.UnknownResources {
			logger.WithFields(logrus.Fields{"task": u.Task, "name": u.Name, "line": u.Line}).Warn("unknown resource ignored")
		}
		p = result.Project
	case ".yaml", ".yml":
		if p, err = plan.LoadDefinition(f); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
	case ".gan":
		if p, err = gan.Decode(f); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
	default:
		return nil, nil, validation.FormatInvalidValueError(ErrUnsupportedInput, ext, inputExtensions)
	}

	if p.Start.IsZero() {
		p.Start = calendar.Truncate(opts.start)
	}
	if err := applyConfig(p); err != nil {
		return nil, nil, err
	}

	report, err := resolve(p)
	if err != nil {
		return nil, nil, err
	}
	return p, report, nil
}

// applyConfig fills project fields the plan left at their defaults.
func applyConfig(p *schedule.Project) error {
	if appConfig == nil {
		return nil
	}
	if isZeroCalendar(p.Calendar) {
		cal, err := appConfig.WorkingCalendar()
		if err != nil {
			return err
		}
		p.Calendar = cal
	}
	if appConfig.Project.Locale != "" && (p.Locale == "" || p.Locale == schedule.DefaultLocale) {
		p.Locale = appConfig.Project.Locale
	}
	if appConfig.Project.Version != "" && (p.Version == "" || p.Version == schedule.DefaultVersion) {
		p.Version = appConfig.Project.Version
	}
	if p.Company == "" {
		p.Company = appConfig.Project.Company
	}
	return nil
}

func isZeroCalendar(c calendar.Calendar) bool {
	return c.WorkingDays.IsEmpty() && len(c.Holidays) == 0 && !c.IncludeWeekends
}

// resolve schedules p and logs what the engine had to work around.
func resolve(p *schedule.Project) (*schedule.Report, error) {
	report, err := schedule.Resolve(p)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", p.Name, err)
	}
	for _, d := range report.Dangling {
		logger.WithFields(logrus.Fields{"predecessor": d.PredecessorID, "successor": d.SuccessorID}).Warn("dependency on missing task ignored")
	}
	for _, id := range report.DuplicateIDs {
		logger.WithField("task", id).Warn("duplicate task id")
	}
	if report.HasCycles() {
		logger.WithField("tasks", report.Forced).Warn("circular dependencies; tasks placed at their authored start or the project start")
	}
	logger.WithFields(logrus.Fields{
		"project": p.Name,
		"passes":  len(report.Passes),
		"tasks":   report.Scheduled(),
		"anchor":  calendar.Format(report.Anchor),
	}).Info("schedule resolved")
	return report, nil
}

func openStakeholders() (*stakeholder.Directory, error) {
	path, err := stakeholdersPath()
	if err != nil {
		return nil, err
	}
	return stakeholder.Open(path)
}

func stakeholdersPath() (string, error) {
	if appConfig == nil {
		return "", errors.New("configuration not loaded")
	}
	return appConfig.StakeholdersPath()
}
