package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"greenlight/internal/analyzer"
)

// interactive runs the slash-command loop until /exit, EOF, or
// interrupt.
func (a *app) interactive(ctx context.Context) error {
	printInfo("Greenlight — interactive mode")
	printInfo("Type /help for available commands, /exit to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			printWarning("Commands must start with /. Type /help for options.")
			continue
		}

		cmd, args := splitCommand(line)
		switch cmd {
		case "help":
			showHelp()
		case "exit":
			printInfo("Goodbye!")
			return nil
		case "analyze-script", "analyze":
			if args == "" {
				printWarning("Usage: /analyze-script <project description>")
				continue
			}
			req, err := a.promptForDetails(scanner, args)
			if err != nil {
				printWarning(err.Error())
				continue
			}
			if err := a.analyze(ctx, req); err != nil {
				printError(fmt.Sprintf("Analysis failed: %v", err))
			}
		default:
			printWarning(fmt.Sprintf("Unknown command: /%s", cmd))
			printInfo("Type /help for available commands")
		}
	}
}

func splitCommand(line string) (cmd, args string) {
	parts := strings.SplitN(line[1:], " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}

// promptForDetails collects the remaining project fields the way the
// run subcommand takes them as flags.
func (a *app) promptForDetails(scanner *bufio.Scanner, description string) (analyzer.ProjectRequest, error) {
	req := analyzer.ProjectRequest{
		Description:    description,
		Genre:          "Unknown",
		Platform:       "theatrical",
		TargetAudience: "general",
	}

	fmt.Print("Budget (in millions, e.g. 50): $")
	if !scanner.Scan() {
		return req, fmt.Errorf("input closed")
	}
	raw := strings.TrimSpace(scanner.Text())
	millions, err := strconv.ParseFloat(raw, 64)
	if err != nil || millions <= 0 {
		return req, fmt.Errorf("invalid budget %q: enter a positive number of millions", raw)
	}
	req.Budget = int64(millions * 1_000_000)

	fmt.Print("Genre (e.g. Action, Drama, Horror): ")
	if !scanner.Scan() {
		return req, fmt.Errorf("input closed")
	}
	if genre := strings.TrimSpace(scanner.Text()); genre != "" {
		req.Genre = genre
	}

	fmt.Print("Platform (theatrical/streaming/hybrid): ")
	if !scanner.Scan() {
		return req, fmt.Errorf("input closed")
	}
	if platform := strings.TrimSpace(scanner.Text()); platform != "" {
		req.Platform = platform
	}

	return req, nil
}

func showHelp() {
	printInfo("Available commands:")
	fmt.Println("  /analyze-script <description>  Run a full greenlighting analysis")
	fmt.Println("  /help                          Show this help message")
	fmt.Println("  /exit                          Exit interactive mode")
}
