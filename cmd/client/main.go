package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=ws://localhost:8080/socket"`
	Token     string `env:"CHAT_TOKEN,required=true"`
	// CHAT_ID enables sending stdin lines to that chat, otherwise the client only listens
	ChatID   string `env:"CHAT_ID"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the socket, prints every event and forwards stdin lines as messages.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+config.Token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, header)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	log.Info("Connected, Ctrl+C to quit", "url", config.ServerURL, "chat_id", config.ChatID)

	if config.ChatID != "" {
		go forwardStdin(conn, config.ChatID)
	}

	// The read loop ends when the server closes the socket or the context closes it.
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		var received frame
		if err = conn.ReadJSON(&received); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("socket error: %w", err)
		}
		printFrame(received)
	}
}

func forwardStdin(conn *websocket.Conn, chatID string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := conn.WriteJSON(map[string]any{
			"event": "NEW_MESSAGE",
			"data":  map[string]string{"chatId": chatID, "message": line},
		})
		if err != nil {
			return
		}
	}
}

func printFrame(f frame) {
	at := time.Now().Format(time.TimeOnly)
	switch f.Event {
	case "NEW_MESSAGE":
		var payload struct {
			Message struct {
				Sender struct {
					Name string `json:"name"`
				} `json:"sender"`
				Content     string            `json:"content"`
				Attachments []json.RawMessage `json:"attachments"`
			} `json:"message"`
		}
		if err := json.Unmarshal(f.Data, &payload); err == nil {
			content := payload.Message.Content
			if n := len(payload.Message.Attachments); n > 0 {
				content = fmt.Sprintf("%s [%d attachment(s)]", content, n)
			}
			fmt.Printf("[%s] %s: %s\n", at, color.Cyan.Render(payload.Message.Sender.Name), content)
			return
		}
	case "ALERT":
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(f.Data, &payload); err == nil {
			fmt.Printf("[%s] %s\n", at, color.Yellow.Render(payload.Message))
			return
		}
	}
	fmt.Printf("[%s] %s %s\n", at, color.Magenta.Render(f.Event), f.Data)
}
