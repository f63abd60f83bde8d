package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"group-chat/auth"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
	tokens *auth.Tokens
}

// SetupSuite loads the environment configuration and skips when no server is configured.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" || s.Config.JWTSecret == "" {
		s.T().Skip("E2E_BASE_URL and JWT_SECRET are required for end to end tests")
	}
	s.Require().GreaterOrEqual(len(s.Config.Users), 4, "E2E_USERS needs four seeded users")
	s.client = &http.Client{Timeout: 30 * time.Second}
	s.tokens = auth.NewTokens(s.Config.JWTSecret)
}

func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

func (s *BaseHTTPSuite) token(userID string) string {
	token, err := s.tokens.Issue(userID, time.Hour)
	s.Require().NoError(err)
	return token
}

// Call sends a JSON request as userID and decodes the response into out.
// It returns the HTTP status.
func (s *BaseHTTPSuite) Call(userID, method, path string, body, out any) int {
	var reader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	r, err := http.NewRequest(method, s.Config.BaseURL+path, reader)
	s.Require().NoError(err)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+s.token(userID))

	start := time.Now()
	resp, err := s.client.Do(r)
	s.Require().NoError(err, "Failed to reach "+s.Config.BaseURL)
	defer func() { _ = resp.Body.Close() }()
	payload, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var logBuilder strings.Builder
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\nRESPONSE:\n%s", raw, payload)
	}
	s.T().Log(logBuilder.String())

	if out != nil {
		s.Require().NoError(json.Unmarshal(payload, out))
	}
	return resp.StatusCode
}

// Socket opens a live connection as userID.
func (s *BaseHTTPSuite) Socket(userID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.Config.BaseURL, "http") + "/socket"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token(userID))
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	s.Require().NoError(err, "Failed to open socket at "+url)

	// The server answers an unknown event only once the connection is bound
	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "READY", "data": map[string]any{}}))
	s.Await(conn, "ALERT")
	return conn
}

// Await reads frames until one with the given event name arrives.
func (s *BaseHTTPSuite) Await(conn *websocket.Conn, name string) json.RawMessage {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(10 * time.Second)))
	for {
		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		s.Require().NoError(conn.ReadJSON(&frame))
		if frame.Event == name {
			return frame.Data
		}
	}
}
