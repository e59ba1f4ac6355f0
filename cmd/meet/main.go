package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"meetlite/internal/session"
	"meetlite/internal/session/livekit"
	"meetlite/pkg/logger"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3001", "admission server base URL")
	passcode := flag.String("passcode", "", "join an existing meeting by passcode")
	room := flag.String("room", "", "enter a meeting directly by room identifier")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	zapLogger := logger.New(*logLevel, "console")
	defer zapLogger.Sync()
	logg := zapLogger.Sugar()

	api := session.NewClient(*serverURL, session.DefaultRequestTimeout)
	prompter := &session.StdinPrompter{In: os.Stdin, Out: os.Stdout}
	surface := livekit.NewSurface(logg)
	ctrl := session.NewController(api, prompter, surface, logg)

	// Cancel in-flight admission calls when the user bails out.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch {
	case *room != "":
		// Direct room entry, guest identity synthesized by the controller.
		err = ctrl.EnterRoom(ctx, *room, "")
	case *passcode != "":
		err = ctrl.JoinMeeting(ctx, *passcode)
	default:
		err = runInteractive(ctx, ctrl)
	}

	if err != nil {
		if msg := ctrl.LastError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	if ctrl.State() == session.StateInCall {
		fmt.Println("In call. Press Ctrl+C to leave.")
		<-ctx.Done()
		ctrl.Leave()
	}
}

func runInteractive(ctx context.Context, ctrl *session.Controller) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("1) Create new meeting")
		fmt.Println("2) Join existing meeting")
		fmt.Print("> ")

		choice, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			created, err := ctrl.CreateMeeting(ctx)
			if err != nil {
				fmt.Println(ctrl.LastError())
				continue
			}
			fmt.Printf("Meeting created!\n  Room:     %s\n  Passcode: %s\n", created.Room, created.Passcode)
			fmt.Println("Share this passcode with others to join.")
			fmt.Print("Join meeting now? [y/N] ")

			answer, _ := reader.ReadString('\n')
			if strings.EqualFold(strings.TrimSpace(answer), "y") {
				return ctrl.JoinCreated(ctx)
			}
			return nil
		case "2":
			fmt.Print("Enter passcode: ")
			code, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			if err := ctrl.JoinMeeting(ctx, strings.TrimSpace(code)); err != nil {
				fmt.Println(ctrl.LastError())
				continue
			}
			return nil
		default:
			fmt.Println("Please choose 1 or 2.")
		}
	}
}
