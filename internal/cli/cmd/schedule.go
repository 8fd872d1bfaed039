package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"rustpanel/internal/cli/ui"
	"rustpanel/pkg/sdk"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled jobs",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	Run: func(cmd *cobra.Command, args []string) {
		schedules, err := Client.ListSchedules()
		if err != nil {
			log.Fatalf("Error listing schedules: %v", err)
		}
		fmt.Println(ui.TitleStyle.Render("Schedules"))
		for _, s := range schedules {
			state := "enabled"
			if !s.Enabled {
				state = "disabled"
			}
			line := fmt.Sprintf("- %s (%s) %s %q on %s [%s]",
				s.Name, s.ID, s.Action, s.Schedule, s.InstanceID, state)
			if s.NextRun != nil {
				line += " next " + s.NextRun.Format("Mon 15:04 MST")
			}
			fmt.Println(line)
		}
	},
}

var schedName, schedInstance, schedAction, schedExpr, schedPayload string

var scheduleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a scheduled job",
	Run: func(cmd *cobra.Command, args []string) {
		job, err := Client.CreateSchedule(sdk.CreateScheduleRequest{
			Name:       schedName,
			InstanceID: schedInstance,
			Action:     schedAction,
			Schedule:   schedExpr,
			Payload:    schedPayload,
		})
		if err != nil {
			log.Fatalf("Error creating schedule: %v", err)
		}
		fmt.Printf("Created %s (%s)\n", job.Name, job.ID)
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a scheduled job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.DeleteSchedule(args[0]); err != nil {
			log.Fatalf("Error deleting schedule: %v", err)
		}
		fmt.Println("Schedule deleted.")
	},
}

var scheduleToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Enable or disable a scheduled job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		job, err := Client.ToggleSchedule(args[0])
		if err != nil {
			log.Fatalf("Error toggling schedule: %v", err)
		}
		state := "enabled"
		if !job.Enabled {
			state = "disabled"
		}
		fmt.Printf("Schedule %s is now %s.\n", job.Name, state)
	},
}

func init() {
	scheduleCreateCmd.Flags().StringVar(&schedName, "name", "", "Job name")
	scheduleCreateCmd.Flags().StringVar(&schedInstance, "server", "", "Target server id")
	scheduleCreateCmd.Flags().StringVar(&schedAction, "action", "", "Action (restart, update, backup, wipe_map, wipe_full, rcon_command, announce)")
	scheduleCreateCmd.Flags().StringVar(&schedExpr, "at", "", `Schedule, "HH:MM" daily or "Mon 09:00" weekly (UTC)`)
	scheduleCreateCmd.Flags().StringVar(&schedPayload, "payload", "", "Command or message for rcon_command/announce")
	scheduleCreateCmd.MarkFlagRequired("name")
	scheduleCreateCmd.MarkFlagRequired("server")
	scheduleCreateCmd.MarkFlagRequired("action")
	scheduleCreateCmd.MarkFlagRequired("at")

	scheduleCmd.AddCommand(scheduleListCmd, scheduleCreateCmd, scheduleDeleteCmd, scheduleToggleCmd)
	RootCmd.AddCommand(scheduleCmd)
}
