package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"k8s.io/klog/v2"

	"github.com/peterkuimelis/triad/internal/config"
	triadmcp "github.com/peterkuimelis/triad/internal/mcp"
)

func main() {
	klog.InitFlags(nil)
	settingsFile := flag.String("config", "triad.yaml", "path to settings file")
	port := flag.String("port", "9999", "TCP port for a human opponent")
	flag.Parse()
	defer klog.Flush()

	s, err := config.Load(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cat, err := s.Catalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	triadmcp.SetMatchConfig(s.MatchConfig(cat))
	triadmcp.SetDefaultOpponent(s.AI.Opponent)
	triadmcp.SetPort(*port)

	srv := server.NewMCPServer("triad", "1.0.0")
	triadmcp.RegisterTools(srv)

	klog.Infof("triad MCP server ready (rules: %s)", s.Rules)
	if err := server.ServeStdio(srv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
