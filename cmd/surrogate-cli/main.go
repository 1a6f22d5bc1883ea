// Package main provides a line-oriented terminal client for the surrogate
// WebSocket server.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maliksaad1/ai-surrogate/internal/protocol"
)

// Client is a WebSocket chat session.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	threadID  string
	done      chan struct{}

	mu      sync.Mutex
	pending *protocol.ConfirmationRequiredMessage
}

// NewClient connects to the server.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Client{
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}

// SendHello performs the handshake and records the session and thread IDs.
func (c *Client) SendHello(userID, apiKey, threadID string) error {
	msg := protocol.HelloMessage{
		BaseMessage: protocol.BaseMessage{
			Type: protocol.TypeHello,
			Ts:   time.Now().UnixMilli(),
		},
		UserID:   userID,
		APIKey:   apiKey,
		ThreadID: threadID,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write hello: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read hello_ack: %w", err)
	}

	var base protocol.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return fmt.Errorf("unmarshal hello_ack: %w", err)
	}
	if base.Type == protocol.TypeError {
		var errMsg protocol.ErrorMessage
		json.Unmarshal(data, &errMsg)
		return fmt.Errorf("hello failed: %s - %s", errMsg.Code, errMsg.Message)
	}
	if base.Type != protocol.TypeHelloAck {
		return fmt.Errorf("expected hello_ack, got: %s", base.Type)
	}

	var ack protocol.HelloAckMessage
	if err := json.Unmarshal(data, &ack); err != nil {
		return fmt.Errorf("unmarshal hello_ack: %w", err)
	}
	c.sessionID = ack.SessionID
	c.threadID = ack.ThreadID
	return nil
}

// SendChat sends one user turn.
func (c *Client) SendChat(content string) error {
	return c.conn.WriteJSON(protocol.ChatMessage{
		BaseMessage: protocol.BaseMessage{
			Type:      protocol.TypeChat,
			Ts:        time.Now().UnixMilli(),
			SessionID: c.sessionID,
		},
		Content: content,
	})
}

// SendConfirm resolves the pending confirmation gate. It reports whether a
// gate was pending.
func (c *Client) SendConfirm(approve bool) (bool, error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	if pending == nil {
		return false, nil
	}

	err := c.conn.WriteJSON(protocol.ConfirmMessage{
		BaseMessage: protocol.BaseMessage{
			Type:      protocol.TypeConfirm,
			Ts:        time.Now().UnixMilli(),
			SessionID: c.sessionID,
		},
		Tool:      pending.Tool,
		Params:    pending.Params,
		Confirmed: approve,
	})
	return true, err
}

func (c *Client) setPending(msg *protocol.ConfirmationRequiredMessage) {
	c.mu.Lock()
	c.pending = msg
	c.mu.Unlock()
}

// ReadMessages prints server events until the connection drops.
func (c *Client) ReadMessages() {
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("Read error: %v", err)
				}
				return
			}
			c.printEvent(data)
		}
	}
}

func (c *Client) printEvent(data []byte) {
	var base protocol.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		log.Printf("Unmarshal error: %v", err)
		return
	}

	switch base.Type {
	case protocol.TypeTrace:
		var msg protocol.TraceMessage
		if json.Unmarshal(data, &msg) != nil {
			return
		}
		line := fmt.Sprintf("  · %s", msg.Entry.Step)
		if msg.Entry.Identifier != "" {
			line += " " + msg.Entry.Identifier
		}
		line += " " + string(msg.Entry.Status)
		if msg.Entry.Confidence != nil {
			line += fmt.Sprintf(" (%.2f)", *msg.Entry.Confidence)
		}
		fmt.Println(line)

	case protocol.TypeResponse:
		var msg protocol.ResponseMessage
		if json.Unmarshal(data, &msg) != nil || msg.Data == nil {
			return
		}
		fmt.Printf("\n%s %s [%s]: %s\n", msg.Data.AgentIcon, msg.Data.AgentDisplayName,
			msg.Data.Emotion, msg.Data.Response)
		fmt.Printf("  (%.2fs)\n\n", msg.Data.Metadata.ProcessingTime)

	case protocol.TypeConfirmationRequired:
		var msg protocol.ConfirmationRequiredMessage
		if json.Unmarshal(data, &msg) != nil {
			return
		}
		c.setPending(&msg)
		fmt.Printf("\n%s\n", msg.Prompt)
		fmt.Println("Type /confirm to approve or /deny to cancel.")

	case protocol.TypeToolResult:
		var msg protocol.ToolResultMessage
		if json.Unmarshal(data, &msg) != nil {
			return
		}
		if msg.Result.Success {
			fmt.Printf("\n%s\n\n", msg.Result.Message)
		} else {
			fmt.Printf("\n%s failed: %s\n\n", msg.Tool, msg.Result.Message)
		}

	case protocol.TypeError:
		var msg protocol.ErrorMessage
		if json.Unmarshal(data, &msg) != nil {
			return
		}
		fmt.Printf("\n[%s] %s\n\n", msg.Code, msg.Message)

	default:
		fmt.Printf("\n[%s] %s\n", base.Type, string(data))
	}
}

func main() {
	addr := flag.String("addr", "ws://localhost:8090/ws", "WebSocket server address")
	apiKey := flag.String("api-key", "", "API key for authentication")
	userID := flag.String("user", "default_user", "User ID")
	threadID := flag.String("thread", "", "Existing thread ID (empty starts a new thread)")
	flag.Parse()

	log.SetFlags(log.Ltime)

	fmt.Printf("Connecting to %s...\n", *addr)

	client, err := NewClient(*addr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	if err := client.SendHello(*userID, *apiKey, *threadID); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	fmt.Printf("Session %s on thread %s\n", client.sessionID, client.threadID)
	fmt.Println("Type a message and press Enter. Commands: /confirm, /deny, /quit")
	fmt.Println()

	go client.ReadMessages()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println("\nInterrupted")
			return
		default:
			if !scanner.Scan() {
				return
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}

			switch input {
			case "/quit":
				fmt.Println("Bye!")
				return
			case "/confirm", "/deny":
				sent, err := client.SendConfirm(input == "/confirm")
				if err != nil {
					log.Printf("Send error: %v", err)
					continue
				}
				if !sent {
					fmt.Println("Nothing to confirm.")
				}
			default:
				if err := client.SendChat(input); err != nil {
					log.Printf("Send error: %v", err)
				}
			}
		}
	}
}
