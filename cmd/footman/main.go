// Command footman is a terminal chat front-end for the football
// assistant: it reads user turns, routes them through the capability
// registry, and renders streamed answers incrementally.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/config"
	"github.com/footman-ai/footman/internal/football"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/responder"
	"github.com/footman-ai/footman/internal/router"
	"github.com/footman-ai/footman/internal/stats"
	"github.com/footman-ai/footman/internal/token"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

func main() {
	configPath := flag.String("config", "footman.toml", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if cfg.Model.APIKey == "" {
		fmt.Fprintln(os.Stderr, "API 키가 설정되지 않았습니다. FOOTMAN_API_KEY 환경 변수를 확인해주세요.")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logrus.WithError(err).Fatal("session ended with error")
	}
}

func run(cfg *config.Config) error {
	sessionID := uuid.NewString()
	log := logrus.WithField("session", sessionID)

	client := model.NewOpenAIClient(&model.OpenAIConfig{
		APIKey:     cfg.Model.APIKey,
		BaseURL:    cfg.Model.BaseURL,
		Model:      cfg.Model.ResponderModel,
		Timeout:    time.Duration(cfg.Model.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Model.MaxRetries,
	})
	routerClient := model.NewOpenAIClient(&model.OpenAIConfig{
		APIKey:     cfg.Model.APIKey,
		BaseURL:    cfg.Model.BaseURL,
		Model:      cfg.Model.RouterModel,
		Timeout:    time.Duration(cfg.Model.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Model.MaxRetries,
	})
	counter := token.NewCounter(cfg.Model.ResponderModel)
	routerCounter := token.NewCounter(cfg.Model.RouterModel)

	statsClient := football.NewStatsClient(cfg.Providers.StatsAPIKey)
	newsClient := football.NewNewsClient(cfg.Providers.NewsAPIKey)
	predictionClient := football.NewPredictionClient(cfg.Providers.PredictionURL)

	registry := responder.NewRegistry()
	registry.Register(responder.NewTeamPlayer(client, counter, statsClient, responder.TeamPlayerConfig{
		Ceiling:           cfg.Budget.TeamPlayer,
		ExtractionCeiling: cfg.Budget.Extraction,
		Temperature:       cfg.Generation.TeamPlayerTemperature,
	}))
	registry.Register(responder.NewNews(client, counter, newsClient, responder.NewsConfig{
		Ceiling:           cfg.Budget.News,
		ExtractionCeiling: cfg.Budget.Extraction,
	}))
	registry.Register(responder.NewPrediction(client, counter, statsClient, predictionClient, responder.PredictionConfig{
		Ceiling:           cfg.Budget.Prediction,
		ExtractionCeiling: cfg.Budget.Extraction,
		Temperature:       cfg.Generation.PredictionTemperature,
	}))
	registry.Register(responder.NewGeneral(client, counter, responder.GeneralConfig{
		Ceiling: cfg.Budget.General,
	}))

	rt := router.New(routerClient, registry, routerCounter, router.Config{
		RoutingCeiling:   cfg.Budget.Routing,
		SynthesisCeiling: cfg.Budget.Synthesis,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(assistantStyle.Render("풋맨") + " 안녕하세요! 축구에 대해 무엇이든 물어보세요.")
	fmt.Println(faintStyle.Render("(종료하려면 exit 또는 Ctrl+D)"))

	collector := stats.NewCollector()

	var history []model.Message
	scanner := inputScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("나> "))
		if !scanner.Scan() {
			break
		}
		query := scanner.Text()
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		started := time.Now()
		result, err := rt.Route(ctx, query, history)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.WithError(err).Error("turn failed")
			collector.RecordError()
			fmt.Println(router.FatalMsg)
			continue
		}

		answer := renderResult(result)
		collector.RecordTurn(counter.Count(query)+counter.Count(answer), time.Since(started))
		history = append(history,
			model.Message{Role: model.RoleUser, Content: query},
			model.Message{Role: model.RoleAssistant, Content: answer},
		)
	}

	summary := collector.Collect()
	fmt.Println(faintStyle.Render(fmt.Sprintf("대화 %d턴, 토큰 약 %d개, 세션 %s", summary.TurnCount, summary.TokenCount, summary.Uptime)))
	fmt.Println(faintStyle.Render("다음에 또 만나요!"))
	return scanner.Err()
}

// maxInputBytes bounds one input line. A pasted turn can easily exceed
// bufio.Scanner's 64KB default, and overflowing the scanner ends the
// session.
const maxInputBytes = 1 << 20

func inputScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxInputBytes)
	return s
}

// renderResult prints a turn's answer, streaming fragments as they
// arrive, and returns the complete text for the history.
func renderResult(result *responder.Result) string {
	fmt.Print(assistantStyle.Render("풋맨> "))
	if result.Stream == nil {
		fmt.Println(result.Text)
		return result.Text
	}

	var full string
	for {
		chunk, err := result.Stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.WithError(err).Warn("answer stream interrupted")
			break
		}
		fmt.Print(chunk.Content)
		full += chunk.Content
	}
	fmt.Println()
	return full
}
