package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/hubledger/internal/ports/primary"
	"github.com/example/hubledger/internal/wire"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage people analytics",
	Long: `Manage people analytics by category and period.

Categories: Employment Type, Gender, Staffing, Tenure, Marital Status,
Turnover (shown as Attrition) and Hiring. Tenure and Marital Status use a
year period ("2025"); the others use a month period ("Jan 2025").`,
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List people metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")

		_, err = wire.PeopleAdapter().List(ctx, hub, category)
		return err
	},
}

var peopleSetCmd = &cobra.Command{
	Use:   "set NAME=VALUE...",
	Short: "Save values for one category and period",
	Long: `Save a set of values for one category and period. Existing rows with
the same name, period and hiring reason are overwritten.

Examples:
  hubledger people set --category "Employment Type" --period "Feb 2025" \
    "Permanent Employees=80" "Contract Employees=25"
  hubledger people set --category Hiring --period "Mar 2025" --reason Backfill "New Hires=3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		values, err := parseMetricValues(args, reason)
		if err != nil {
			return err
		}

		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		period, _ := cmd.Flags().GetString("period")

		_, err = wire.PeopleAdapter().Save(ctx, primary.SaveMetricsRequest{
			HubName:  hub,
			Category: category,
			Period:   period,
			Values:   values,
		})
		return err
	},
}

var peopleGenderCmd = &cobra.Command{
	Use:   "gender",
	Short: "Save gender counts and recompute the hub's gender split",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		period, _ := flags.GetString("period")
		female, _ := flags.GetFloat64("female")
		male, _ := flags.GetFloat64("male")
		other, _ := flags.GetFloat64("other")

		_, err = wire.PeopleAdapter().Gender(ctx, primary.SaveGenderRequest{
			HubName: hub,
			Period:  period,
			Female:  female,
			Male:    male,
			Other:   other,
		})
		return err
	},
}

var peopleBenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Save the bench count for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		period, _ := cmd.Flags().GetString("period")
		count, _ := cmd.Flags().GetInt("count")

		_, err = wire.PeopleAdapter().Bench(ctx, primary.SaveStaffingRequest{
			HubName:    hub,
			Period:     period,
			BenchCount: count,
		})
		return err
	},
}

var peopleAddPeriodCmd = &cobra.Command{
	Use:   "add-period",
	Short: "Create zero-valued rows for a new period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		period, _ := cmd.Flags().GetString("period")

		_, err = wire.PeopleAdapter().AddPeriod(ctx, primary.AddPeriodRequest{
			HubName:  hub,
			Category: category,
			Period:   period,
		})
		return err
	},
}

var peopleEditCmd = &cobra.Command{
	Use:   "edit [id] [value]",
	Short: "Set the value of one stored row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid metric ID %q", args[0])
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q", args[1])
		}

		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		return wire.PeopleAdapter().Edit(ctx, hub, id, value)
	},
}

var peopleRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove one stored row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid metric ID %q", args[0])
		}

		ctx, hub, err := hubContext(cmd)
		if err != nil {
			return err
		}
		return wire.PeopleAdapter().Remove(ctx, hub, id)
	},
}

// parseMetricValues turns NAME=VALUE arguments into metric values.
// The last '=' separates name from value.
func parseMetricValues(args []string, reason string) ([]primary.MetricValue, error) {
	values := make([]primary.MetricValue, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i <= 0 {
			return nil, fmt.Errorf("expected NAME=VALUE, got %q", arg)
		}
		name := strings.TrimSpace(arg[:i])
		value, err := strconv.ParseFloat(strings.TrimSpace(arg[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", name, arg[i+1:])
		}
		values = append(values, primary.MetricValue{Name: name, Value: value, HiringReason: reason})
	}
	return values, nil
}

// PeopleCmd returns the people command
func PeopleCmd() *cobra.Command {
	for _, c := range []*cobra.Command{
		peopleListCmd, peopleSetCmd, peopleGenderCmd, peopleBenchCmd,
		peopleAddPeriodCmd, peopleEditCmd, peopleRemoveCmd,
	} {
		addHubFlag(c)
	}

	peopleListCmd.Flags().StringP("category", "c", "", "Only list this category")

	peopleSetCmd.Flags().StringP("category", "c", "", "Category")
	peopleSetCmd.Flags().StringP("period", "p", "", "Period, e.g. \"Jan 2025\" or \"2025\"")
	peopleSetCmd.Flags().String("reason", "", "Hiring reason (Hiring only)")
	peopleSetCmd.MarkFlagRequired("category")
	peopleSetCmd.MarkFlagRequired("period")

	peopleGenderCmd.Flags().StringP("period", "p", "", "Period, e.g. \"Jan 2025\"")
	peopleGenderCmd.Flags().Float64("female", 0, "Female count")
	peopleGenderCmd.Flags().Float64("male", 0, "Male count")
	peopleGenderCmd.Flags().Float64("other", 0, "Other count")
	peopleGenderCmd.MarkFlagRequired("period")

	peopleBenchCmd.Flags().StringP("period", "p", "", "Period, e.g. \"Jan 2025\"")
	peopleBenchCmd.Flags().Int("count", 0, "Bench count")
	peopleBenchCmd.MarkFlagRequired("period")

	peopleAddPeriodCmd.Flags().StringP("category", "c", "", "Category")
	peopleAddPeriodCmd.Flags().StringP("period", "p", "", "New period")
	peopleAddPeriodCmd.MarkFlagRequired("category")
	peopleAddPeriodCmd.MarkFlagRequired("period")

	peopleCmd.AddCommand(peopleListCmd)
	peopleCmd.AddCommand(peopleSetCmd)
	peopleCmd.AddCommand(peopleGenderCmd)
	peopleCmd.AddCommand(peopleBenchCmd)
	peopleCmd.AddCommand(peopleAddPeriodCmd)
	peopleCmd.AddCommand(peopleEditCmd)
	peopleCmd.AddCommand(peopleRemoveCmd)

	return peopleCmd
}
