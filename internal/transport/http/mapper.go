package http

import (
	"encoding/json"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// helpCommands is the canned slash-command reference sent with help events.
var helpCommands = []string{"/admin <secret>", "/kick <name>", "/nick <name>"}

// inboundToCommand maps a wire envelope to a core command. Field validation
// beyond well-formed JSON stays in the core, which reports failures as
// private error events.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			Room:     join.Room,
			User:     join.User,
			Password: join.Password,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Text: msg.Text,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data: proto.EventMessage{
				Room: event.Room,
				Text: event.Text,
			},
		}
	case core.EventRoomJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomJoined,
			Data:  proto.EventRoomJoined{Room: event.Room},
		}
	case core.EventKicked:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameKicked,
			Data:  proto.EventKicked{Room: event.Room},
		}
	case core.EventRoomList:
		rooms := make([]proto.RoomEntry, 0, len(event.Rooms))
		for _, room := range event.Rooms {
			rooms = append(rooms, proto.RoomEntry{
				Name:     room.Name,
				Members:  room.Members,
				Password: room.Locked,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomList,
			Data:  proto.EventRoomList{Rooms: rooms},
		}
	case core.EventHelp:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameHelp,
			Data:  proto.EventHelp{Commands: helpCommands},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}
