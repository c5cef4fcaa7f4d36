package protocol

type MessageType uint8

const (
	MessageTypeEncodeRequest  MessageType = 1
	MessageTypeEncodeResponse MessageType = 2
	MessageTypeError          MessageType = 3
	MessageTypeClose          MessageType = 4
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeEncodeRequest:
		return "ENCODE_REQUEST"
	case MessageTypeEncodeResponse:
		return "ENCODE_RESPONSE"
	case MessageTypeError:
		return "ERROR"
	case MessageTypeClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}
