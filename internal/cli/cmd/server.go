package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"rustpanel/internal/cli/ui"
	"rustpanel/pkg/sdk"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage servers",
}

var createName, createType, createHostname string
var createMaxPlayers, createWorldSize, createSeed int

var serverCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new server",
	Run: func(cmd *cobra.Command, args []string) {
		handleCreate()
	},
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all servers",
	Run: func(cmd *cobra.Command, args []string) {
		handleList()
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show provisioning status and log",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleStatus(args[0])
	},
}

var serverDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.DeleteServer(args[0]); err != nil {
			log.Fatalf("Error deleting server: %v", err)
		}
		fmt.Println("Server deleted.")
	},
}

var serverCommandCmd = &cobra.Command{
	Use:   "command [id] [command...]",
	Short: "Run a raw RCON command",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		output, err := Client.RunCommand(args[0], joinArgs(args[1:]))
		if err != nil {
			log.Fatalf("Error running command: %v", err)
		}
		fmt.Println(output)
	},
}

var serverPlayersCmd = &cobra.Command{
	Use:   "players [id]",
	Short: "List connected players",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handlePlayers(args[0])
	},
}

var wipeFull bool
var wipeSeed string

var serverWipeCmd = &cobra.Command{
	Use:   "wipe [id]",
	Short: "Wipe the server's world (map wipe by default)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := Client.WipeServer(args[0], wipeFull, wipeSeed)
		if err != nil {
			log.Fatalf("Error wiping server: %v", err)
		}
		fmt.Println(result.Output)
	},
}

var serverConsoleCmd = &cobra.Command{
	Use:   "console [id]",
	Short: "Attach an interactive console",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runConsole(args[0])
	},
}

func init() {
	serverCreateCmd.Flags().StringVar(&createName, "name", "", "Server name")
	serverCreateCmd.Flags().StringVar(&createType, "type", "vanilla", "Server type (vanilla or modded)")
	serverCreateCmd.Flags().StringVar(&createHostname, "hostname", "", "Public hostname shown in the server browser")
	serverCreateCmd.Flags().IntVar(&createMaxPlayers, "max-players", 0, "Player slots")
	serverCreateCmd.Flags().IntVar(&createWorldSize, "world-size", 0, "World size")
	serverCreateCmd.Flags().IntVar(&createSeed, "seed", 0, "World seed")
	serverCreateCmd.MarkFlagRequired("name")

	serverWipeCmd.Flags().BoolVar(&wipeFull, "full", false, "Also wipe player blueprints and bans")
	serverWipeCmd.Flags().StringVar(&wipeSeed, "seed", "", "New world seed")

	for _, action := range []string{"start", "stop", "restart", "update", "backup", "save"} {
		serverCmd.AddCommand(actionCommand(action))
	}

	serverCmd.AddCommand(serverCreateCmd, serverListCmd, serverStatusCmd,
		serverDeleteCmd, serverCommandCmd, serverPlayersCmd, serverWipeCmd, serverConsoleCmd)
	RootCmd.AddCommand(serverCmd)
}

func actionCommand(action string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s [id]", action),
		Short: fmt.Sprintf("Run the %s action", action),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var result *sdk.CommandResult
			var err error
			switch action {
			case "start":
				result, err = Client.StartServer(args[0])
			case "stop":
				result, err = Client.StopServer(args[0])
			case "restart":
				result, err = Client.RestartServer(args[0])
			case "update":
				result, err = Client.UpdateServer(args[0])
			case "backup":
				result, err = Client.BackupServer(args[0])
			case "save":
				result, err = Client.SaveServer(args[0])
			}
			if err != nil {
				log.Fatalf("Error running %s: %v", action, err)
			}
			if !result.Success {
				fmt.Println(ui.ErrorStyle.Render(action + " failed"))
			}
			fmt.Println(result.Output)
		},
	}
}

func handleCreate() {
	server, err := Client.CreateServer(sdk.CreateServerRequest{
		Name:       createName,
		Type:       createType,
		Hostname:   createHostname,
		MaxPlayers: createMaxPlayers,
		WorldSize:  createWorldSize,
		Seed:       createSeed,
	})
	if err != nil {
		log.Fatalf("Error creating server: %v", err)
	}

	fmt.Printf("Provisioning started: %s (%s)\n", server.Name, server.ID)
	fmt.Println("Watching progress, Ctrl+C to detach...")

	seen := 0
	for {
		time.Sleep(3 * time.Second)
		status, err := Client.GetServerStatus(server.ID)
		if err != nil {
			log.Fatalf("Error polling status: %v", err)
		}
		for _, line := range status.StatusLog[seen:] {
			fmt.Println(ui.DimStyle.Render(line))
		}
		seen = len(status.StatusLog)
		if status.Status == "ready" || status.Status == "error" {
			fmt.Printf("Final status: %s\n", ui.StatusBadge(status.Status))
			return
		}
	}
}

func handleList() {
	servers, err := Client.ListServers()
	if err != nil {
		log.Fatalf("Error listing servers: %v", err)
	}

	fmt.Println(ui.TitleStyle.Render("Servers"))
	for _, s := range servers {
		line := fmt.Sprintf("- %s (%s) [%s] port %d", s.Name, s.ID, ui.StatusBadge(s.Status), s.GamePort)
		if s.Status == "ready" {
			line += fmt.Sprintf(" %s players %d/%d", ui.OnlineBadge(s.Online), s.Players, s.MaxPlayers)
		}
		fmt.Println(line)
	}
}

func handleStatus(id string) {
	status, err := Client.GetServerStatus(id)
	if err != nil {
		log.Fatalf("Error fetching status: %v", err)
	}
	fmt.Printf("%s %s\n", ui.KeyStyle.Render("Status:"), ui.StatusBadge(status.Status))
	for _, line := range status.StatusLog {
		fmt.Println(ui.DimStyle.Render(line))
	}
}

func handlePlayers(id string) {
	players, err := Client.ListPlayers(id)
	if err != nil {
		log.Fatalf("Error listing players: %v", err)
	}
	if len(players) == 0 {
		fmt.Println("No players connected.")
		return
	}
	for _, p := range players {
		fmt.Printf("- %s (%s) ping %dms health %.0f\n", p.DisplayName, p.SteamID, p.Ping, p.Health)
	}
}

// runConsole bridges stdin/stdout to the server's console websocket.
func runConsole(id string) {
	wsURL, err := Client.GetWebSocketURL(fmt.Sprintf("/ws/servers/%s/console", id))
	if err != nil {
		log.Fatal("Error parsing base URL:", err)
	}

	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("Error connecting to console: %v", err)
	}
	defer c.Close()

	go func() {
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				fmt.Println(ui.DimStyle.Render("console closed"))
				os.Exit(0)
			}
			fmt.Println(string(message))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			log.Fatalf("Error sending command: %v", err)
		}
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
