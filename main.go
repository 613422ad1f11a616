package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"qatrack/config"
	"qatrack/database"
	"qatrack/logger"
	"qatrack/web"
	"qatrack/web/service"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	if err := database.InitDB(); err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func createUser(username, password string) {
	if username == "" || password == "" {
		fmt.Println("username and password are required")
		return
	}
	if err := database.InitDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	authService := service.NewAuthService()
	user, err := authService.Register(username, password)
	if err != nil {
		fmt.Println("create user failed:", err)
		return
	}
	fmt.Printf("created user %q (id %d)\n", user.Username, user.Id)
}

func main() {
	var username string
	var password string
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   config.GetName(),
		Short: "QA report tracking panel",
		Run: func(cmd *cobra.Command, args []string) {
			if showVersion {
				fmt.Println(config.GetVersion())
				return
			}
			runWebServer()
		},
	}
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version and exit")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Create a panel user",
		Run: func(cmd *cobra.Command, args []string) {
			createUser(username, password)
		},
	}
	userCmd.Flags().StringVar(&username, "username", "", "username of the new user")
	userCmd.Flags().StringVar(&password, "password", "", "password of the new user")

	rootCmd.AddCommand(runCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
