package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tensorworks-llc/p2gan/calendar"
)

// dateValue is a YYYY-MM-DD flag. The zero time means unset.
type dateValue struct {
	target *time.Time
}

var _ pflag.Value = dateValue{}

func (d dateValue) String() string {
	if d.target == nil || d.target.IsZero() {
		return ""
	}
	return calendar.Format(*d.target)
}

func (d dateValue) Set(value string) error {
	t, err := calendar.Parse(value)
	if err != nil {
		return err
	}
	*d.target = t
	return nil
}

func (d dateValue) Type() string {
	return "date"
}

func addDateFlag(cmd *cobra.Command, target *time.Time, name, usage string) {
	cmd.Flags().Var(dateValue{target: target}, name, usage)
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}
