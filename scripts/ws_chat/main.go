package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name")
	room := flag.String("room", "general", "room to join")
	password := flag.String("password", "", "room password")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joinPayload, err := json.Marshal(proto.JoinData{Room: *room, User: *user, Password: *password})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. Slash-commands work too. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError {
			if outbound.Error != nil {
				fmt.Printf("error [%s]: %s\n", outbound.Error.Code, outbound.Error.Msg)
			}
			continue
		}

		switch outbound.Event {
		case proto.EventNameMessage:
			var evt proto.EventMessage
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Printf("[%s] %s\n", evt.Room, evt.Text)
		case proto.EventNameRoomJoined:
			var evt proto.EventRoomJoined
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal room_joined: %v", err)
				continue
			}
			fmt.Printf("joined room %s\n", evt.Room)
		case proto.EventNameKicked:
			var evt proto.EventKicked
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal kicked: %v", err)
				continue
			}
			fmt.Printf("kicked from room %s\n", evt.Room)
		case proto.EventNameRoomList:
			var evt proto.EventRoomList
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal room_list: %v", err)
				continue
			}
			for _, room := range evt.Rooms {
				lock := ""
				if room.Password {
					lock = " (locked)"
				}
				fmt.Printf("room %s: %d member(s)%s\n", room.Name, room.Members, lock)
			}
		case proto.EventNameHelp:
			var evt proto.EventHelp
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal help: %v", err)
				continue
			}
			fmt.Printf("commands: %s\n", strings.Join(evt.Commands, ", "))
		default:
			fmt.Printf("event=%s data=%v\n", outbound.Event, outbound.Data)
		}
	}
}

func decodeData(data any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			payload, err := json.Marshal(proto.MsgData{Text: text})
			if err != nil {
				log.Printf("marshal msg: %v", err)
				continue
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMsg, Data: payload}); err != nil {
				log.Printf("send: %v", err)
				return
			}
		}
	}
}
