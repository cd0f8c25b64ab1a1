package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/internal/prompt"
	"github.com/petasbytes/go-toolcall/internal/provider"
	"github.com/petasbytes/go-toolcall/internal/runner"
	"github.com/petasbytes/go-toolcall/tools"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		scenario   = flag.String("scenario", "trivia", "one of: trivia, multiply, weather, ask")
		topic      = flag.String("topic", "space exploration", "trivia topic")
		a          = flag.Float64("a", 15, "multiply: first factor")
		b          = flag.Float64("b", 23, "multiply: second factor")
		lat        = flag.Float64("lat", 36.9741, "weather: latitude")
		lon        = flag.Float64("lon", -122.0288, "weather: longitude")
		question   = flag.String("prompt", "", "ask: free-form question")
	)
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	all, err := tools.Default(cfg)
	if err != nil {
		fatal(err)
	}

	var (
		req      provider.Request
		bound    []string
		vars     map[string]string
		template prompt.Template
	)
	switch *scenario {
	case "trivia":
		template, vars = prompt.Trivia, map[string]string{"topic": *topic}
	case "multiply":
		template, bound = prompt.Multiply, []string{"multiply"}
		vars = map[string]string{"a": formatNum(*a), "b": formatNum(*b)}
	case "weather":
		template, bound = prompt.Weather, []string{"get_weather"}
		vars = map[string]string{"latitude": formatNum(*lat), "longitude": formatNum(*lon)}
	case "ask":
		if *question == "" {
			fatal(fmt.Errorf("-prompt is required for the ask scenario"))
		}
		req = prompt.Ask(*question)
		for _, d := range all.Definitions() {
			bound = append(bound, d.Name)
		}
	default:
		fatal(fmt.Errorf("unknown scenario %q", *scenario))
	}
	if vars != nil {
		if req, err = template.Format(vars); err != nil {
			fatal(err)
		}
	}

	reg, err := all.Subset(bound...)
	if err != nil {
		fatal(err)
	}
	model, err := provider.New(cfg, reg.Definitions())
	if err != nil {
		fatal(err)
	}
	r := runner.New(model, reg)
	r.Strict = cfg.StrictTools

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *scenario == "trivia" {
		fmt.Printf("Trivia about %s:\n", *topic)
	}
	res, err := r.Run(ctx, req)
	if err != nil {
		fatal(err)
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "note: model requested unknown tools %v; skipped\n", res.Skipped)
	}
	if res.Response.Text == "" && len(res.ToolResults) == 0 {
		fmt.Println("(no content)")
	}
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
