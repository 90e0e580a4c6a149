// Command wsprobe tails a member's realtime event stream. It trades a JWT for
// a single-use WebSocket ticket and prints every event until interrupted.
// Intended for development and debugging of event fan-out.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8375", "API host:port")
	token := flag.String("token", "", "JWT bearer token (or set WSPROBE_TOKEN)")
	email := flag.String("email", "", "Login email (alternative to -token)")
	password := flag.String("password", "", "Login password")
	flag.Parse()

	jwt := *token
	if jwt == "" {
		jwt = os.Getenv("WSPROBE_TOKEN")
	}
	if jwt == "" && *email != "" {
		var err error
		jwt, err = login(*host, *email, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}
	if jwt == "" {
		log.Fatal("a token (-token / WSPROBE_TOKEN) or credentials (-email, -password) are required")
	}

	ticket, err := issueTicket(*host, jwt)
	if err != nil {
		log.Fatalf("ticket request failed: %v", err)
	}

	wsURL := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws", RawQuery: "ticket=" + ticket}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("dial %s: %v", wsURL.String(), err)
	}
	defer conn.Close()

	log.Printf("connected to %s, waiting for events (Ctrl-C to quit)", wsURL.String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			fmt.Println(string(message))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-sigChan:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		<-done
	}
}

func login(host, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post("http://"+host+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %s", resp.Status)
	}

	var decoded struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	return decoded.Token, nil
}

func issueTicket(host, jwt string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, "http://"+host+"/api/ws/ticket", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+jwt)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("ticket endpoint returned %s", resp.Status)
	}

	var decoded struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	return decoded.Ticket, nil
}
