package events

// Event is anything carried on the bus.
type Event interface {
	Kind() string
}

// Response is the socket's answer to a forwarded command. A nil Response
// means the peer could not resolve it.
type Response struct {
	Command  string
	Response *string
}

func (Response) Kind() string { return "response" }

// ConnectionState 描述 socket 连接生命周期。
type ConnectionState string

const (
	StateConnected    ConnectionState = "connect"
	StateDisconnected ConnectionState = "disconnect"
	StateError        ConnectionState = "error"
)

// Connection reports a socket lifecycle change. It is logged, never rendered.
type Connection struct {
	State ConnectionState
	URL   string
	Err   error
}

func (c Connection) Kind() string { return "connection." + string(c.State) }
