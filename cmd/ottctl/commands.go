package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Show how the dataset columns are classified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			l := ds.Layout

			printTitle(out, fmt.Sprintf("%s (%s layout, strategy %s)", ds.Table.Source(), l.Kind, l.Strategy))

			roles := make(map[int]string)
			set := func(col int, role string) {
				if col >= 0 {
					roles[col] = role
				}
			}
			set(l.YearCol, "year")
			set(l.DimensionCol, "group dimension")
			set(l.GroupValueCol, "group value")
			set(l.SampleCountCol, "sample count")
			set(l.GenderCol, "gender")
			set(l.AgeCol, "age")
			set(l.ServiceCol, "service name")
			set(l.PercentCol, "usage percent")
			for _, c := range l.ServiceCols {
				roles[c] = "service"
			}

			var rows [][]string
			for i, c := range ds.Table.Columns() {
				role, ok := roles[i]
				if !ok {
					role = "ignored"
				}
				rows = append(rows, []string{strconv.Itoa(i), c, role})
			}
			printTable(out, []string{"#", "column", "role"}, rows)
			fmt.Fprintf(out, "%d rows, %d records\n", ds.Table.Len(), len(ds.Records))
			return nil
		},
	}
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the selectable sex, age and service values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			o := ds.Options
			printTable(cmd.OutOrStdout(), []string{"option", "values"}, [][]string{
				{"성별", joinOrDash(o.SexValues)},
				{"연령대", joinOrDash(o.AgeValues)},
				{"OTT 서비스", joinOrDash(o.Services)},
				{"기본 선택", joinOrDash(o.DefaultServices)},
			})
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	var sex, age string
	var services []string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print every dashboard section for a selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := core.Selection{Sex: sex, Age: age, Services: services}
			if !cmd.Flags().Changed("services") {
				sel.DefaultServices = true
			}

			d, err := a.svc.Dashboard(cmd.Context(), sel)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("source %s, services %s", d.Source, joinOrDash(d.Selection.Services))))
			fmt.Fprintln(out)
			for _, sec := range d.Sections {
				printSection(out, sec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sex, "sex", core.AllValue, "sex group, or ALL")
	cmd.Flags().StringVar(&age, "age", core.AllValue, "age group, or ALL")
	cmd.Flags().StringSliceVar(&services, "services", nil, "services to show; empty means all (default: preselected services)")
	return cmd
}

func newRecordsCmd(a *app) *cobra.Command {
	var dimension, value string
	var services []string

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the long-form records for one dimension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, ok := core.ParseDimension(strings.ToLower(dimension))
			if !ok {
				return userError(fmt.Errorf("invalid dimension %q", dimension))
			}

			records, err := a.svc.Records(cmd.Context(), core.Criteria{Dimension: dim, Value: value, Services: services})
			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, core.ErrEmptySelection):
				msg := core.MapError(err)
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("%s (%s)", msg.Message, msg.Code)))
				return nil
			case err != nil:
				return userError(err)
			}

			printRecords(out, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&dimension, "dimension", string(core.DimensionSex), "sex or age")
	cmd.Flags().StringVar(&value, "value", core.AllValue, "group value, or ALL")
	cmd.Flags().StringSliceVar(&services, "services", nil, "services to include (default: all)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseExportFormat(format)
			if err != nil {
				return err
			}
			ds, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			return core.WriteCSV(cmd.OutOrStdout(), ds, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(core.ExportLong), "long or wide")
	return cmd
}
